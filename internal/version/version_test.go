package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3"
	got := String()
	if !strings.HasPrefix(got, "beacon 1.2.3 (git ") {
		t.Errorf("String() = %q, want prefix %q", got, "beacon 1.2.3 (git ")
	}
}

package api

import (
	"fmt"
	"net/http"

	"tailscale.com/tsweb"

	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/httputil"
	"github.com/banshee-data/coverage.report/internal/sensor"
)

// AttachAdminRoutes mounts debug pages for a preloaded sensor set under
// /debug/. Access is restricted by tsweb to loopback and tailnet callers.
func AttachAdminRoutes(mux *http.ServeMux, sensors *sensor.Set) {
	debug := tsweb.Debugger(mux)
	debug.KV("Sensors loaded", sensors.Len())
	if lo, hi, ok := sensors.Extent(); ok {
		debug.KV("Extent", fmt.Sprintf("%s to %s", lo, hi))
	}

	debug.HandleFunc("sensors", "List the loaded sensors with their radius", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for i, s := range sensors.Sensors() {
			fmt.Fprintf(w, "%3d  sensor %s  beacon %s  radius %d\n", i, s.Location, s.Beacon, s.Radius)
		}
	})

	debug.HandleFunc("row", "Merged coverage of one row (?y=N)", func(w http.ResponseWriter, r *http.Request) {
		y, err := httputil.QueryInt(r, "y", 0)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		ranges := coverage.Row(sensors, y)
		if ranges == nil {
			ranges = []coverage.Range{}
		}
		httputil.WriteJSONOK(w, rangesResponse{Row: y, Ranges: ranges, Total: coverage.Total(ranges)})
	})
}

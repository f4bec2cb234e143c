package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/coverage.report/internal/config"
	"github.com/banshee-data/coverage.report/internal/coverage"
	"github.com/banshee-data/coverage.report/internal/httputil"
	"github.com/banshee-data/coverage.report/internal/monitoring"
	"github.com/banshee-data/coverage.report/internal/report"
	"github.com/banshee-data/coverage.report/internal/sensor"
	"github.com/banshee-data/coverage.report/internal/timeutil"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// maxBodyBytes caps the sensor report accepted in a request body.
const maxBodyBytes = 1 << 20

type Server struct {
	cfg   *config.ScanConfig
	clock timeutil.Clock
}

// NewServer creates a Server. A nil cfg selects the built-in defaults and a
// nil clock selects the wall clock.
func NewServer(cfg *config.ScanConfig, clock timeutil.Clock) *Server {
	if cfg == nil {
		cfg = config.EmptyScanConfig()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Server{cfg: cfg, clock: clock}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration as
// measured by the server's clock.
func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(s.clock.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/count", s.handleCount)
	mux.HandleFunc("/api/ranges", s.handleRanges)
	mux.HandleFunc("/api/gap", s.handleGap)
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

// Run serves the API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string, extra func(*http.ServeMux)) error {
	mux := s.ServeMux()
	if extra != nil {
		extra(mux)
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           s.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			monitoring.Logf("HTTP server force close error: %v", err)
		}
	}
	monitoring.Logf("HTTP server routine stopped")
	return nil
}

// readSensors parses the sensor report in the request body. On failure it
// writes the error response and returns nil.
func readSensors(w http.ResponseWriter, r *http.Request) *sensor.Set {
	sensors, err := sensor.ParseReader(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil
		}
		httputil.BadRequest(w, err.Error())
		return nil
	}
	return sensors
}

type countResponse struct {
	Row   int `json:"row"`
	Count int `json:"count"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	row, err := httputil.QueryInt(r, "row", s.cfg.GetCountRow())
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	sensors := readSensors(w, r)
	if sensors == nil {
		return
	}
	httputil.WriteJSONOK(w, countResponse{Row: row, Count: coverage.CountCovered(sensors, row)})
}

type rangesResponse struct {
	Row    int              `json:"row"`
	Ranges []coverage.Range `json:"ranges"`
	Total  int              `json:"total"`
}

func (s *Server) handleRanges(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	row, err := httputil.QueryInt(r, "row", s.cfg.GetCountRow())
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	sensors := readSensors(w, r)
	if sensors == nil {
		return
	}
	ranges := coverage.Row(sensors, row)
	if ranges == nil {
		ranges = []coverage.Range{}
	}
	httputil.WriteJSONOK(w, rangesResponse{Row: row, Ranges: ranges, Total: coverage.Total(ranges)})
}

type gapResponse struct {
	RunID     string  `json:"run_id"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Frequency int64   `json:"frequency"`
	Shards    int     `json:"shards"`
	Workers   int     `json:"workers"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

// searchBounds reads the min and max query parameters, defaulting to the
// configured search square.
func (s *Server) searchBounds(r *http.Request, minKey, maxKey string) (coverage.Bounds, error) {
	lo, err := httputil.QueryInt(r, minKey, s.cfg.GetSearchMin())
	if err != nil {
		return coverage.Bounds{}, err
	}
	hi, err := httputil.QueryInt(r, maxKey, s.cfg.GetSearchMax())
	if err != nil {
		return coverage.Bounds{}, err
	}
	b := coverage.Bounds{Min: lo, Max: hi}
	if err := b.Validate(); err != nil {
		return coverage.Bounds{}, err
	}
	return b, nil
}

func (s *Server) handleGap(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	bounds, err := s.searchBounds(r, "min", "max")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	sensors := readSensors(w, r)
	if sensors == nil {
		return
	}

	ctx := r.Context()
	if timeout := s.cfg.GetScanTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	scanner := coverage.NewScanner(sensors, coverage.ScanOptions{
		Workers:   s.cfg.GetWorkers(),
		ShardRows: s.cfg.GetShardRows(),
		Clock:     s.clock,
	})
	res, err := scanner.Scan(ctx, bounds, bounds)
	switch {
	case err == nil:
	case errors.Is(err, coverage.ErrNotFound):
		httputil.NotFound(w, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded):
		httputil.WriteJSONError(w, http.StatusGatewayTimeout, "gap scan timed out")
		return
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
		return
	default:
		httputil.InternalServerError(w, err.Error())
		return
	}

	httputil.WriteJSONOK(w, gapResponse{
		RunID:     res.RunID,
		X:         res.Position.X,
		Y:         res.Position.Y,
		Frequency: res.Frequency,
		Shards:    res.Shards,
		Workers:   res.Workers,
		ElapsedMS: float64(res.Elapsed.Nanoseconds()) / 1e6,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodPost) {
		return
	}
	rows, err := s.searchBounds(r, "from", "to")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	sensors := readSensors(w, r)
	if sensors == nil {
		return
	}
	var buf bytes.Buffer
	if err := report.RenderRowChart(&buf, sensors, rows); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.WriteHTML(w, buf.Bytes())
}

type configResponse struct {
	CountRow    int    `json:"count_row"`
	SearchMin   int    `json:"search_min"`
	SearchMax   int    `json:"search_max"`
	Workers     int    `json:"workers"`
	ShardRows   int    `json:"shard_rows"`
	ScanTimeout string `json:"scan_timeout"`
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if !httputil.RequireMethod(w, r, http.MethodGet) {
		return
	}
	httputil.WriteJSONOK(w, configResponse{
		CountRow:    s.cfg.GetCountRow(),
		SearchMin:   s.cfg.GetSearchMin(),
		SearchMax:   s.cfg.GetSearchMax(),
		Workers:     s.cfg.GetWorkers(),
		ShardRows:   s.cfg.GetShardRows(),
		ScanTimeout: s.cfg.GetScanTimeout().String(),
	})
}


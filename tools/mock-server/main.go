// Package main implements a mock catalog host for local development.
// It serves listings.json and sources.json from a fixture directory the way
// a static site would, so `terrenos serve` can be pointed at http catalog
// locations without a deployed data site. Fixtures are re-read on every
// request, so edits show up on the next catalog reload.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// catalogFiles are the payloads the host serves under /data/.
var catalogFiles = []string{"listings.json", "sources.json"}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	dir := flag.String("dir", "tools/mock-server/testdata", "directory holding listings.json and sources.json")
	failEvery := flag.Int("fail-every", 0, "answer every Nth request with 503 (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	for _, name := range catalogFiles {
		if _, err := os.Stat(filepath.Join(*dir, name)); err != nil {
			logger.Error("missing fixture", "path", filepath.Join(*dir, name), "error", err)
			os.Exit(1)
		}
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock catalog host", "addr", addr, "dir", *dir, "fail_every", *failEvery)

	srv := &http.Server{
		Addr:         addr,
		Handler:      newHandler(logger, *dir, *failEvery),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newHandler(logger *slog.Logger, dir string, failEvery int) http.Handler {
	mux := http.NewServeMux()
	for _, name := range catalogFiles {
		mux.HandleFunc("GET /data/"+name, fileHandler(logger, filepath.Join(dir, name)))
	}
	return requestLogger(logger, flaky(failEvery, mux))
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// flaky fails every nth request so catalog reload error handling can be
// exercised locally.
func flaky(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	var count atomic.Int64
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if count.Add(1)%int64(n) == 0 {
			http.Error(w, "simulated outage", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func fileHandler(logger *slog.Logger, path string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
		if err != nil {
			logger.Error("reading fixture", "path", path, "error", err)
			http.Error(w, "fixture unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write(data)
		logger.Info("served fixture", "path", path, "bytes", len(data))
	}
}

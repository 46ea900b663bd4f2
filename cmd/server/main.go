package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/registrylabs/content-registry/pkg/registry/api"
	"github.com/registrylabs/content-registry/pkg/registry/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	svc, store, err := cfg.BuildService(ctx)
	if err != nil {
		logger.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	handler := api.NewRouter(api.Config{
		Service:        svc,
		Tokens:         cfg.BuildTokenService(),
		BlobStore:      store,
		MaxUploadBytes: cfg.MaxUploadBytes,
		EnableCORS:     cfg.IsDevelopment(),
	})

	// Filesystem-backed blobs are served straight off disk.
	handler = withLocalUploads(handler, cfg.StorageURL)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
	}

	go func() {
		logger.Info("content registry starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"storage", cfg.StorageURL)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

// withLocalUploads mounts a static file server over the fs backend's base
// directory so the URLs it hands out resolve. Other backends pass through.
func withLocalUploads(next http.Handler, storageURL string) http.Handler {
	u, err := url.Parse(storageURL)
	if err != nil || u.Scheme != "file" {
		return next
	}

	baseDir := u.Host + u.Path
	if baseDir == "" {
		baseDir = "./data/storage"
	}
	prefix := u.Query().Get("prefix")
	if prefix == "" {
		prefix = "/uploads"
	}
	prefix = strings.TrimSuffix(prefix, "/")

	files := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(baseDir)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, prefix+"/") {
			files.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

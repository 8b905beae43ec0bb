package playground

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

type RunOptions struct {
	Listen       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Handler      http.Handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, opts RunOptions) error {
	listen := strings.TrimSpace(opts.Listen)
	if listen == "" {
		return errors.New("listen address is empty")
	}
	srv := &http.Server{
		Addr:              listen,
		Handler:           opts.Handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("lpdb playground listening on %s", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("run: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("lpdb playground stopped")
	return nil
}

// OpenAccessLogger returns a stdout logger when path is empty, else a logger
// appending to path. color is set when stdout is a terminal.
func OpenAccessLogger(path string) (*log.Logger, io.Closer, bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return log.New(os.Stdout, "", 0), nil, isatty.IsTerminal(os.Stdout.Fd()), nil
	}
	dir := filepath.Dir(path)
	if strings.TrimSpace(dir) != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, false, err
		}
	}
	// #nosec G304 -- access_log_path comes from trusted config/env.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, false, err
	}
	return log.New(f, "", 0), f, false, nil
}

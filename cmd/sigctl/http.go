package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"text-signing-service/internal/content"
)

const shutdownTimeout = 5 * time.Second

// httpCmd はHTTP関連のコマンド群。
func httpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "HTTP utilities",
	}
	cmd.AddCommand(httpServeCmd())
	return cmd
}

// httpServeCmd はディレクトリをHTTPで公開する。SIGINT/SIGTERMで停止する。
func httpServeCmd() *cobra.Command {
	var dir string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := content.ValidateDir(dir); err != nil {
				return err
			}
			if port < 1 || port > 65535 {
				return fmt.Errorf("--port must be between 1 and 65535, got %d", port)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := fmt.Sprintf(":%d", port)
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s on %s\n", dir, ln.Addr())

			srv := &http.Server{
				Handler:           newFileServer(dir),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serveUntilDone(ctx, srv, ln)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to serve")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	return cmd
}

// newFileServer は dir 配下のファイルを返すハンドラを生成する。
func newFileServer(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(accessLog)
	r.Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// serveUntilDone は ctx がキャンセルされるまで ln で待ち受け、その後グレースフルに停止する。
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

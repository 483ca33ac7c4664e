package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"text-signing-service/internal/middleware"
)

// NewRouter はルーターを生成する。maxBodyBytes はリクエストボディの上限。
func NewRouter(th *TextHandler, kh *KeyHandler, maxBodyBytes int64) http.Handler {
	r := chi.NewRouter()

	// ミドルウェア
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ステートレスAPI
	r.Post("/v1/keygen/{format}", th.GenerateKey)
	r.Post("/v1/sign", th.Sign)
	r.Post("/v1/verify", th.Verify)

	// 保管鍵API
	r.Route("/v1/keys", func(r chi.Router) {
		r.Post("/", kh.CreateKey)
		r.Get("/", kh.ListKeys)
		r.Get("/{name}", kh.GetKey)
		r.Post("/{name}/sign", kh.Sign)
		r.Post("/{name}/verify", kh.Verify)
	})

	return otelhttp.NewHandler(r, "text-signing-service")
}

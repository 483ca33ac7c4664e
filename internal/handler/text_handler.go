// Package handler はHTTPハンドラを提供する。
package handler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"text-signing-service/internal/domain"
	"text-signing-service/internal/usecase"
	"text-signing-service/pkg/httputil"
)

// TextHandler は鍵を呼び出し側が渡すステートレスな署名APIを提供する。
type TextHandler struct {
	service *usecase.TextService
}

// NewTextHandler は新しいTextHandlerを生成する。
func NewTextHandler(service *usecase.TextService) *TextHandler {
	return &TextHandler{service: service}
}

// SignRequest は署名リクエストの形式。key と content はbase64url。
type SignRequest struct {
	Format  string `json:"format"`
	Key     string `json:"key"`
	Content string `json:"content"`
}

// SignResponse は署名レスポンスの形式。
type SignResponse struct {
	Format    string `json:"format"`
	Signature string `json:"signature"`
}

// VerifyRequest は検証リクエストの形式。
type VerifyRequest struct {
	Format    string `json:"format"`
	Key       string `json:"key"`
	Content   string `json:"content"`
	Signature string `json:"signature"`
}

// VerifyResponse は検証レスポンスの形式。
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// KeygenResponse は鍵生成レスポンスの形式。keys の値はbase64url。
type KeygenResponse struct {
	Format string            `json:"format"`
	Keys   map[string]string `json:"keys"`
}

// GenerateKey は鍵バンドルを生成して返す。サーバー側には保存しない。
func (h *TextHandler) GenerateKey(w http.ResponseWriter, r *http.Request) {
	format, err := domain.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}

	bundle, err := h.service.GenerateKey(r.Context(), format)
	if err != nil {
		writeError(w, err)
		return
	}

	keys := make(map[string]string, len(bundle))
	for name, b := range bundle {
		keys[name] = encodeBytes(b)
	}
	httputil.JSON(w, http.StatusOK, KeygenResponse{Format: format.String(), Keys: keys})
}

// Sign はリクエストの鍵で content に署名する。
func (h *TextHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req SignRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	format, err := domain.ParseFormat(req.Format)
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := decodeBytes(req.Key)
	if err != nil {
		writeBase64Error(w, "key")
		return
	}
	content, err := decodeBytes(req.Content)
	if err != nil {
		writeBase64Error(w, "content")
		return
	}

	sig, err := h.service.Sign(r.Context(), format, key, bytes.NewReader(content))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, SignResponse{Format: format.String(), Signature: encodeBytes(sig)})
}

// Verify はリクエストの鍵で署名を検証する。不一致は200で valid=false を返す。
func (h *TextHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	format, err := domain.ParseFormat(req.Format)
	if err != nil {
		writeError(w, err)
		return
	}
	key, err := decodeBytes(req.Key)
	if err != nil {
		writeBase64Error(w, "key")
		return
	}
	content, err := decodeBytes(req.Content)
	if err != nil {
		writeBase64Error(w, "content")
		return
	}
	sig, err := decodeBytes(req.Signature)
	if err != nil {
		writeBase64Error(w, "signature")
		return
	}

	ok, err := h.service.Verify(r.Context(), format, key, bytes.NewReader(content), sig)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, VerifyResponse{Valid: ok})
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"text-signing-service/internal/domain"
	"text-signing-service/internal/middleware"
	"text-signing-service/internal/usecase"
	"text-signing-service/pkg/httputil"
)

// KeyHandler はサーバー側で保管する署名鍵のHTTPハンドラを提供する。
type KeyHandler struct {
	service *usecase.KeyService
}

// NewKeyHandler は新しいKeyHandlerを生成する。
func NewKeyHandler(service *usecase.KeyService) *KeyHandler {
	return &KeyHandler{service: service}
}

// CreateKeyRequest は鍵作成リクエストの形式。
type CreateKeyRequest struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

// KeyMetadataResponse は鍵メタデータのレスポンス形式。
type KeyMetadataResponse struct {
	Name      string `json:"name"`
	Format    string `json:"format"`
	PublicKey string `json:"public_key,omitempty"`
	CreatedAt string `json:"created_at"`
}

// KeyListResponse は鍵一覧のレスポンス形式。
type KeyListResponse struct {
	Keys []KeyMetadataResponse `json:"keys"`
}

// KeySignRequest は保管鍵による署名リクエストの形式。
type KeySignRequest struct {
	Content string `json:"content"`
}

// KeyVerifyRequest は保管鍵による検証リクエストの形式。
type KeyVerifyRequest struct {
	Content   string `json:"content"`
	Signature string `json:"signature"`
}

func toMetadataResponse(m *domain.KeyMetadata) KeyMetadataResponse {
	resp := KeyMetadataResponse{
		Name:      m.Name,
		Format:    m.Format.String(),
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if len(m.PublicKey) > 0 {
		resp.PublicKey = encodeBytes(m.PublicKey)
	}
	return resp
}

// CreateKey は新しい署名鍵を生成して保管する。
func (h *KeyHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	var req CreateKeyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validateKeyName(req.Name); err != nil {
		writeError(w, err)
		return
	}
	format, err := domain.ParseFormat(req.Format)
	if err != nil {
		writeError(w, err)
		return
	}

	metadata, err := h.service.CreateKey(r.Context(), req.Name, format)
	if err != nil {
		middleware.WriteAuditLog(r.Context(), "CREATE_KEY", req.Name, format, middleware.AuditFailed)
		writeError(w, err)
		return
	}

	middleware.WriteAuditLog(r.Context(), "CREATE_KEY", req.Name, format, middleware.AuditSuccess)
	httputil.JSON(w, http.StatusCreated, toMetadataResponse(metadata))
}

// GetKey は鍵のメタデータを取得する。
func (h *KeyHandler) GetKey(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := validateKeyName(name); err != nil {
		writeError(w, err)
		return
	}

	metadata, err := h.service.GetKey(r.Context(), name)
	if err != nil {
		middleware.WriteAuditLog(r.Context(), "GET_KEY", name, 0, middleware.AuditFailed)
		writeError(w, err)
		return
	}

	middleware.WriteAuditLog(r.Context(), "GET_KEY", name, metadata.Format, middleware.AuditSuccess)
	httputil.JSON(w, http.StatusOK, toMetadataResponse(metadata))
}

// ListKeys は鍵一覧を取得する。
func (h *KeyHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.service.ListKeys(r.Context())
	if err != nil {
		middleware.WriteAuditLog(r.Context(), "LIST_KEYS", "", 0, middleware.AuditFailed)
		writeError(w, err)
		return
	}

	middleware.WriteAuditLog(r.Context(), "LIST_KEYS", "", 0, middleware.AuditSuccess)
	response := KeyListResponse{
		Keys: make([]KeyMetadataResponse, len(keys)),
	}
	for i, k := range keys {
		response.Keys[i] = toMetadataResponse(k)
	}
	httputil.JSON(w, http.StatusOK, response)
}

// Sign は保管鍵で content に署名する。
func (h *KeyHandler) Sign(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := validateKeyName(name); err != nil {
		writeError(w, err)
		return
	}

	var req KeySignRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	content, err := decodeBytes(req.Content)
	if err != nil {
		writeBase64Error(w, "content")
		return
	}

	sig, format, err := h.service.SignWithKey(r.Context(), name, content)
	if err != nil {
		middleware.WriteAuditLog(r.Context(), "SIGN", name, format, middleware.AuditFailed)
		writeError(w, err)
		return
	}

	middleware.WriteAuditLog(r.Context(), "SIGN", name, format, middleware.AuditSuccess)
	httputil.JSON(w, http.StatusOK, SignResponse{Format: format.String(), Signature: encodeBytes(sig)})
}

// Verify は保管鍵で署名を検証する。
func (h *KeyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := validateKeyName(name); err != nil {
		writeError(w, err)
		return
	}

	var req KeyVerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
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

	ok, err := h.service.VerifyWithKey(r.Context(), name, content, sig)
	if err != nil {
		middleware.WriteAuditLog(r.Context(), "VERIFY", name, 0, middleware.AuditFailed)
		writeError(w, err)
		return
	}

	result := middleware.AuditSuccess
	if !ok {
		result = "MISMATCH"
	}
	middleware.WriteAuditLog(r.Context(), "VERIFY", name, 0, result)
	httputil.JSON(w, http.StatusOK, VerifyResponse{Valid: ok})
}

package handler

import (
	"errors"
	"net/http"
	"regexp"

	"text-signing-service/internal/codec"
	"text-signing-service/internal/domain"
	"text-signing-service/pkg/httputil"
)

var keyNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateKeyName(name string) error {
	if name == "" || len(name) > 64 || !keyNameRegex.MatchString(name) {
		return domain.ErrInvalidKeyName
	}
	return nil
}

// decodeBytes はリクエスト内のbase64url文字列をデコードする。
func decodeBytes(s string) ([]byte, error) {
	return codec.DecodeString(s, codec.Base64URLSafe)
}

func encodeBytes(b []byte) string {
	return codec.EncodeBytes(b, codec.Base64URLSafe)
}

// errorStatus はドメインエラーをHTTPステータスとエラーコードに対応付ける。
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrUnknownFormat):
		return http.StatusBadRequest, "UNKNOWN_FORMAT", "format must be blake3 or ed25519"
	case errors.Is(err, domain.ErrInvalidKeyName):
		return http.StatusBadRequest, "INVALID_KEY_NAME", "invalid key name format"
	case errors.Is(err, domain.ErrKeyTooShort):
		return http.StatusUnprocessableEntity, "KEY_TOO_SHORT", "key is shorter than the scheme requires"
	case errors.Is(err, domain.ErrInvalidKey):
		return http.StatusUnprocessableEntity, "INVALID_KEY", "key is not a valid key for this scheme"
	case errors.Is(err, domain.ErrMalformedSignature):
		return http.StatusUnprocessableEntity, "MALFORMED_SIGNATURE", "signature length does not match the scheme"
	case errors.Is(err, domain.ErrKeyNotFound):
		return http.StatusNotFound, "KEY_NOT_FOUND", "key not found"
	case errors.Is(err, domain.ErrKeyAlreadyExists):
		return http.StatusConflict, "KEY_ALREADY_EXISTS", "key already exists"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code, message := errorStatus(err)
	httputil.Error(w, status, code, message)
}

// writeDecodeError はリクエストボディのデコード失敗を返す。
func writeDecodeError(w http.ResponseWriter, err error) {
	if httputil.IsBodyTooLarge(err) {
		httputil.Error(w, http.StatusRequestEntityTooLarge, "CONTENT_TOO_LARGE", "request body too large")
		return
	}
	httputil.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
}

func writeBase64Error(w http.ResponseWriter, field string) {
	httputil.Error(w, http.StatusBadRequest, "INVALID_BASE64", field+" must be base64url without padding")
}

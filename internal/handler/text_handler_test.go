package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"text-signing-service/internal/domain"
	"text-signing-service/internal/usecase"
)

func setupRouter(t *testing.T, maxBodyBytes int64) http.Handler {
	t.Helper()
	th := NewTextHandler(usecase.NewTextService())
	kh := setupHandler(newMockKeyRepository(), &mockKeyWrapper{})
	return NewRouter(th, kh, maxBodyBytes)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Healthz(t *testing.T) {
	r := setupRouter(t, 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("want status 200, got %d", rec.Code)
	}
}

func TestRouter_KeygenSignVerify(t *testing.T) {
	r := setupRouter(t, 1<<20)

	tests := []struct {
		format    string
		signKey   string
		verifyKey string
	}{
		{"blake3", domain.Blake3KeyFile, domain.Blake3KeyFile},
		{"ed25519", domain.Ed25519SecretKeyFile, domain.Ed25519PublicKeyFile},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := post(t, r, "/v1/keygen/"+tt.format, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("keygen: want status 200, got %d", rec.Code)
			}
			var keygen KeygenResponse
			json.NewDecoder(rec.Body).Decode(&keygen)
			if keygen.Format != tt.format {
				t.Errorf("want format %s, got %s", tt.format, keygen.Format)
			}

			content := encodeBytes([]byte("hello"))
			rec = post(t, r, "/v1/sign",
				`{"format":"`+tt.format+`","key":"`+keygen.Keys[tt.signKey]+`","content":"`+content+`"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("sign: want status 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var signResp SignResponse
			json.NewDecoder(rec.Body).Decode(&signResp)

			rec = post(t, r, "/v1/verify",
				`{"format":"`+tt.format+`","key":"`+keygen.Keys[tt.verifyKey]+`","content":"`+content+`","signature":"`+signResp.Signature+`"}`)
			var verifyResp VerifyResponse
			json.NewDecoder(rec.Body).Decode(&verifyResp)
			if rec.Code != http.StatusOK || !verifyResp.Valid {
				t.Errorf("verify: want 200 valid, got %d %+v", rec.Code, verifyResp)
			}

			rec = post(t, r, "/v1/verify",
				`{"format":"`+tt.format+`","key":"`+keygen.Keys[tt.verifyKey]+`","content":"","signature":"`+signResp.Signature+`"}`)
			verifyResp = VerifyResponse{}
			json.NewDecoder(rec.Body).Decode(&verifyResp)
			if rec.Code != http.StatusOK || verifyResp.Valid {
				t.Errorf("verify mismatch: want 200 invalid, got %d %+v", rec.Code, verifyResp)
			}
		})
	}
}

func TestRouter_SignDeterministic(t *testing.T) {
	r := setupRouter(t, 0)
	body := `{"format":"blake3","key":"` + encodeBytes(make([]byte, 32)) + `","content":"` + encodeBytes([]byte("hello")) + `"}`

	var sigs []string
	for i := 0; i < 2; i++ {
		rec := post(t, r, "/v1/sign", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("want status 200, got %d", rec.Code)
		}
		var resp SignResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		sigs = append(sigs, resp.Signature)
	}

	if sigs[0] != sigs[1] {
		t.Errorf("want identical signatures, got %s and %s", sigs[0], sigs[1])
	}
	sig, err := decodeBytes(sigs[0])
	if err != nil || len(sig) != 32 {
		t.Errorf("want 32-byte signature, got %d (%v)", len(sig), err)
	}
}

func TestRouter_Errors(t *testing.T) {
	r := setupRouter(t, 256)
	zeroKey := encodeBytes(make([]byte, 32))
	shortKey := encodeBytes(make([]byte, 31))

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown keygen format", "/v1/keygen/rsa", "", http.StatusBadRequest},
		{"uppercase format", "/v1/sign", `{"format":"Blake3","key":"` + zeroKey + `","content":""}`, http.StatusBadRequest},
		{"bad base64 key", "/v1/sign", `{"format":"blake3","key":"%%%","content":""}`, http.StatusBadRequest},
		{"short key", "/v1/sign", `{"format":"blake3","key":"` + shortKey + `","content":""}`, http.StatusUnprocessableEntity},
		{"malformed signature", "/v1/verify", `{"format":"blake3","key":"` + zeroKey + `","content":"","signature":"AAAA"}`, http.StatusUnprocessableEntity},
		{"unknown field", "/v1/sign", `{"format":"blake3","key":"` + zeroKey + `","content":"","extra":true}`, http.StatusBadRequest},
		{"body too large", "/v1/sign", `{"format":"blake3","key":"` + zeroKey + `","content":"` + strings.Repeat("A", 300) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, r, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("want status %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_StoredKeyRoutes(t *testing.T) {
	r := setupRouter(t, 0)

	rec := post(t, r, "/v1/keys", `{"name":"alpha","format":"ed25519"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: want status 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/keys/alpha", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("get: want status 200, got %d", rec.Code)
	}

	rec = post(t, r, "/v1/keys/alpha/sign", `{"content":"aGVsbG8"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("sign: want status 200, got %d", rec.Code)
	}
}

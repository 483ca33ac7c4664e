// Package codec はBase64のエンコード・デコードを提供する。
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"text-signing-service/internal/domain"
)

// Base64Format はBase64の種類を表す。
type Base64Format string

const (
	// Base64Standard はパディング付きの標準アルファベット。
	Base64Standard Base64Format = "standard"
	// Base64URLSafe はURLセーフアルファベット（パディングなし）。
	Base64URLSafe Base64Format = "urlsafe"
)

// ParseBase64Format はフォーマット名を解釈する。
func ParseBase64Format(s string) (Base64Format, error) {
	switch Base64Format(s) {
	case Base64Standard, Base64URLSafe:
		return Base64Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidBase64Format, s)
	}
}

func (f Base64Format) encoding() *base64.Encoding {
	if f == Base64URLSafe {
		return base64.RawURLEncoding
	}
	return base64.StdEncoding
}

// Encode は r の内容を読み込んでエンコードする。
func Encode(r io.Reader, format Base64Format) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	return EncodeBytes(b, format), nil
}

// Decode は r の内容を読み込んでデコードする。前後の空白は無視する。
func Decode(r io.Reader, format Base64Format) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	return DecodeString(string(bytes.TrimSpace(b)), format)
}

// EncodeBytes は b をエンコードする。
func EncodeBytes(b []byte, format Base64Format) string {
	return format.encoding().EncodeToString(b)
}

// DecodeString は s をデコードする。
func DecodeString(s string, format Base64Format) ([]byte, error) {
	b, err := format.encoding().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding %s base64: %w", format, err)
	}
	return b, nil
}

// Package domain はドメインモデルとビジネスルールを定義する。
package domain

import "fmt"

// Format は署名スキームを表す。
type Format uint8

const (
	// FormatBlake3 はBLAKE3鍵付きハッシュによる対称スキーム。
	FormatBlake3 Format = iota + 1
	// FormatEd25519 はEd25519による非対称スキーム。
	FormatEd25519
)

// ParseFormat は外部境界で受け取ったフォーマット名を解釈する。大文字小文字は区別する。
func ParseFormat(s string) (Format, error) {
	switch s {
	case "blake3":
		return FormatBlake3, nil
	case "ed25519":
		return FormatEd25519, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// String は正規の小文字名を返す。
func (f Format) String() string {
	switch f {
	case FormatBlake3:
		return "blake3"
	case FormatEd25519:
		return "ed25519"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// IsValid は既知のフォーマットか判定する。
func (f Format) IsValid() bool {
	return f == FormatBlake3 || f == FormatEd25519
}

// MarshalText は encoding.TextMarshaler を実装する。
func (f Format) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText は encoding.TextUnmarshaler を実装する。
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

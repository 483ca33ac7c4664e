// Package signing はテキスト署名エンジンを提供する。
//
// スキームは BLAKE3 鍵付きハッシュ（対称鍵）と Ed25519（非対称鍵）の2種類に閉じている。
// Signer と Verifier は非公開メソッドで封印してあり、このパッケージ外で実装を追加できない。
// フォーマットごとの分岐は NewSigner / NewVerifier / GenerateFrom の switch だけで行う。
//
// エンジンは鍵の保管や入出力を扱わない。バイト列を受け取りバイト列を返すだけで、
// 同時に呼び出しても共有状態はない。
package signing

import (
	"crypto/rand"
	"fmt"
	"io"

	"text-signing-service/internal/domain"
)

// Signer は内容に署名する。
type Signer interface {
	Format() domain.Format
	Sign(content []byte) []byte
	sealed()
}

// Verifier は署名を検証する。不一致は false を返し、エラーにはしない。
// 署名長の不一致など構造的な問題のみエラーを返す。
type Verifier interface {
	Format() domain.Format
	Verify(content, signature []byte) (bool, error)
	sealed()
}

// NewSigner はフォーマットに対応する Signer を生成する。
// Ed25519 の場合 key は32バイトのシード。
func NewSigner(format domain.Format, key []byte) (Signer, error) {
	switch format {
	case domain.FormatBlake3:
		s, err := NewBlake3(key)
		if err != nil {
			return nil, err
		}
		return s, nil
	case domain.FormatEd25519:
		s, err := NewEd25519Signer(key)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, format)
	}
}

// NewVerifier はフォーマットに対応する Verifier を生成する。
// Ed25519 の場合 key は32バイトの公開鍵。
func NewVerifier(format domain.Format, key []byte) (Verifier, error) {
	switch format {
	case domain.FormatBlake3:
		v, err := NewBlake3(key)
		if err != nil {
			return nil, err
		}
		return v, nil
	case domain.FormatEd25519:
		v, err := NewEd25519Verifier(key)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, format)
	}
}

// SignatureSize はフォーマットの署名長を返す。
func SignatureSize(format domain.Format) (int, error) {
	switch format {
	case domain.FormatBlake3:
		return Blake3SignatureSize, nil
	case domain.FormatEd25519:
		return Ed25519SignatureSize, nil
	default:
		return 0, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, format)
	}
}

// Sign は content に署名する。
func Sign(format domain.Format, key, content []byte) ([]byte, error) {
	s, err := NewSigner(format, key)
	if err != nil {
		return nil, err
	}
	return s.Sign(content), nil
}

// Verify は content と signature を検証する。
func Verify(format domain.Format, key, content, signature []byte) (bool, error) {
	v, err := NewVerifier(format, key)
	if err != nil {
		return false, err
	}
	return v.Verify(content, signature)
}

// SignReader は r を最後まで読み込んでから署名する。
func SignReader(format domain.Format, key []byte, r io.Reader) ([]byte, error) {
	s, err := NewSigner(format, key)
	if err != nil {
		return nil, err
	}
	content, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return s.Sign(content), nil
}

// VerifyReader は r を最後まで読み込んでから検証する。
func VerifyReader(format domain.Format, key []byte, r io.Reader, signature []byte) (bool, error) {
	v, err := NewVerifier(format, key)
	if err != nil {
		return false, err
	}
	content, err := readAll(r)
	if err != nil {
		return false, err
	}
	return v.Verify(content, signature)
}

// Generate はCSPRNGを使って鍵を生成する。
func Generate(format domain.Format) (domain.KeyBundle, error) {
	return GenerateFrom(format, rand.Reader)
}

// GenerateFrom は乱数源 r を使って鍵を生成する。
func GenerateFrom(format domain.Format, r io.Reader) (domain.KeyBundle, error) {
	switch format {
	case domain.FormatBlake3:
		return GenerateBlake3Key(r)
	case domain.FormatEd25519:
		return GenerateEd25519Keys(r)
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, format)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading content: %v", domain.ErrIO, err)
	}
	return b, nil
}

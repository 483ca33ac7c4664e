package signing

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"text-signing-service/internal/domain"
)

// Ed25519SignatureSize はEd25519署名の長さ。
const Ed25519SignatureSize = ed25519.SignatureSize

// Ed25519Signer は32バイトのシードから作った秘密鍵で署名する。
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// Ed25519Verifier は32バイトの公開鍵で検証する。
type Ed25519Verifier struct {
	key ed25519.PublicKey
}

var (
	_ Signer   = (*Ed25519Signer)(nil)
	_ Verifier = (*Ed25519Verifier)(nil)
)

// NewEd25519Signer は秘密鍵（シード）バイト列からEd25519Signerを生成する。
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	km, err := NewKeyMaterial(seed, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{key: ed25519.NewKeyFromSeed(km.Bytes())}, nil
}

// Format は domain.FormatEd25519 を返す。
func (s *Ed25519Signer) Format() domain.Format { return domain.FormatEd25519 }

// Sign は content の64バイト署名を返す。Ed25519は決定的なので同じ入力には同じ署名を返す。
func (s *Ed25519Signer) Sign(content []byte) []byte {
	return ed25519.Sign(s.key, content)
}

// PublicKey は対応する公開鍵を返す。
func (s *Ed25519Signer) PublicKey() []byte {
	return append([]byte(nil), s.key.Public().(ed25519.PublicKey)...)
}

func (s *Ed25519Signer) sealed() {}

// NewEd25519Verifier は公開鍵バイト列からEd25519Verifierを生成する。
// 曲線上の点として復号できない場合は domain.ErrInvalidKey を返す。
func NewEd25519Verifier(pub []byte) (*Ed25519Verifier, error) {
	km, err := NewKeyMaterial(pub, ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}
	if _, err := new(edwards25519.Point).SetBytes(km.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: ed25519 public key is not a valid point encoding", domain.ErrInvalidKey)
	}
	return &Ed25519Verifier{key: ed25519.PublicKey(km.Bytes())}, nil
}

// Format は domain.FormatEd25519 を返す。
func (v *Ed25519Verifier) Format() domain.Format { return domain.FormatEd25519 }

// Verify は署名を検証する。署名長が64バイトでない場合は domain.ErrMalformedSignature を返す。
func (v *Ed25519Verifier) Verify(content, signature []byte) (bool, error) {
	if len(signature) != Ed25519SignatureSize {
		return false, fmt.Errorf("%w: ed25519 signature must be %d bytes, got %d",
			domain.ErrMalformedSignature, Ed25519SignatureSize, len(signature))
	}
	return ed25519.Verify(v.key, content, signature), nil
}

func (v *Ed25519Verifier) sealed() {}

// GenerateEd25519Keys は秘密鍵と公開鍵を必ず1組で生成する。公開鍵はシードから導出する。
func GenerateEd25519Keys(rand io.Reader) (domain.KeyBundle, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("generating ed25519 key: %w", err)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return domain.KeyBundle{
		domain.Ed25519SecretKeyFile: seed,
		domain.Ed25519PublicKeyFile: append([]byte(nil), priv.Public().(ed25519.PublicKey)...),
	}, nil
}

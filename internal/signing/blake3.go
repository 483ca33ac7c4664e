package signing

import (
	"crypto/subtle"
	"fmt"
	"io"

	"lukechampine.com/blake3"

	"text-signing-service/internal/domain"
)

// Blake3SignatureSize はBLAKE3署名（鍵付きハッシュ）の長さ。
const Blake3SignatureSize = 32

// Blake3 は32バイトの共有鍵による鍵付きハッシュ署名。署名と検証の両方を行う。
type Blake3 struct {
	key [KeySize]byte
}

var (
	_ Signer   = (*Blake3)(nil)
	_ Verifier = (*Blake3)(nil)
)

// NewBlake3 は鍵バイト列からBlake3を生成する。
func NewBlake3(key []byte) (*Blake3, error) {
	km, err := NewKeyMaterial(key, KeySize)
	if err != nil {
		return nil, err
	}
	b := &Blake3{}
	copy(b.key[:], km.Bytes())
	return b, nil
}

// Format は domain.FormatBlake3 を返す。
func (b *Blake3) Format() domain.Format { return domain.FormatBlake3 }

// Sign は content の鍵付きハッシュを返す。同じ鍵と内容なら常に同じ結果になる。
func (b *Blake3) Sign(content []byte) []byte {
	h := blake3.New(Blake3SignatureSize, b.key[:])
	h.Write(content)
	return h.Sum(nil)
}

// Verify は鍵付きハッシュを再計算し、定数時間で全32バイトを比較する。
// 署名長が32バイトでない場合は domain.ErrMalformedSignature を返す。
func (b *Blake3) Verify(content, signature []byte) (bool, error) {
	if len(signature) != Blake3SignatureSize {
		return false, fmt.Errorf("%w: blake3 signature must be %d bytes, got %d",
			domain.ErrMalformedSignature, Blake3SignatureSize, len(signature))
	}
	return subtle.ConstantTimeCompare(b.Sign(content), signature) == 1, nil
}

func (b *Blake3) sealed() {}

// GenerateBlake3Key はCSPRNGから32バイトの鍵を生成する。
func GenerateBlake3Key(rand io.Reader) (domain.KeyBundle, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand, key); err != nil {
		return nil, fmt.Errorf("generating blake3 key: %w", err)
	}
	return domain.KeyBundle{domain.Blake3KeyFile: key}, nil
}

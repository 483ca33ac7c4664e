package signing

import (
	"fmt"

	"text-signing-service/internal/domain"
)

// KeySize はBLAKE3鍵およびEd25519の各鍵の長さ。
const KeySize = 32

// KeyMaterial は検証済みの鍵バイト列を保持する。
type KeyMaterial struct {
	b []byte
}

// NewKeyMaterial は外部から渡された鍵バイト列を検証する。
// 外部入力の鍵は必ずここを通してからスキームに渡す。
//
// size より短い場合は domain.ErrKeyTooShort を返す。長い場合は先頭 size バイトだけを使い、
// 残りは黙って捨てる。既存の鍵ファイル（末尾改行付きなど）との互換のための挙動で、
// 厳密に長さ一致を要求するかは未決定。
func NewKeyMaterial(b []byte, size int) (KeyMaterial, error) {
	if len(b) < size {
		return KeyMaterial{}, fmt.Errorf("%w: need %d bytes, got %d", domain.ErrKeyTooShort, size, len(b))
	}
	key := make([]byte, size)
	copy(key, b[:size])
	return KeyMaterial{b: key}, nil
}

// Bytes は鍵バイト列を返す。
func (k KeyMaterial) Bytes() []byte {
	return k.b
}

// Len は鍵の長さを返す。
func (k KeyMaterial) Len() int {
	return len(k.b)
}

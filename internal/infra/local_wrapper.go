package infra

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"text-signing-service/config"
)

// ErrWrappedKeyInvalid は暗号文の形式不正または認証失敗を表す。
var ErrWrappedKeyInvalid = errors.New("wrapped key is invalid")

// LocalKeyWrapper はローカルのマスター鍵（XChaCha20-Poly1305）で鍵を暗号化する。
// KMSを使えない開発環境向け。出力は nonce || ciphertext。
type LocalKeyWrapper struct {
	masterKey []byte
}

// NewLocalKeyWrapper は32バイトのマスター鍵からLocalKeyWrapperを生成する。
func NewLocalKeyWrapper(masterKey []byte) (*LocalKeyWrapper, error) {
	if len(masterKey) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("master key must be %d bytes, got %d", chacha20poly1305.KeySize, len(masterKey))
	}
	return &LocalKeyWrapper{masterKey: append([]byte(nil), masterKey...)}, nil
}

// Encrypt は平文を暗号化する。
func (w *LocalKeyWrapper) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(w.masterKey)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt は暗号文を復号する。
func (w *LocalKeyWrapper) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(w.masterKey)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < chacha20poly1305.NonceSizeX+aead.Overhead() {
		return nil, ErrWrappedKeyInvalid
	}
	nonce, sealed := ciphertext[:chacha20poly1305.NonceSizeX], ciphertext[chacha20poly1305.NonceSizeX:]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrWrappedKeyInvalid
	}
	return plaintext, nil
}

// Close は何もしない。KMSClient と同じインターフェースを満たすために用意している。
func (w *LocalKeyWrapper) Close() error {
	return nil
}

// KeyWrapper は鍵の暗号化・復号を行う実装を表す。
type KeyWrapper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// NewKeyWrapper は設定に応じてCloud KMSまたはローカル鍵のラッパーを返す。
func NewKeyWrapper(ctx context.Context, cfg *config.Config) (KeyWrapper, error) {
	if cfg.KMSKeyName != "" {
		c, err := NewKMSClient(ctx, cfg.KMSKeyName)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if cfg.LocalMasterKey == "" {
		return nil, fmt.Errorf("either KMS_KEY_NAME or LOCAL_MASTER_KEY is required")
	}
	key, err := hex.DecodeString(cfg.LocalMasterKey)
	if err != nil {
		return nil, fmt.Errorf("decoding LOCAL_MASTER_KEY: %w", err)
	}
	w, err := NewLocalKeyWrapper(key)
	if err != nil {
		return nil, err
	}
	return w, nil
}

package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"text-signing-service/internal/domain"
	"text-signing-service/internal/signing"
)

// mockKeyRepository はテスト用のモックリポジトリ。
type mockKeyRepository struct {
	existsResult bool
	existsErr    error
	createErr    error
	findErr      error
	findAllErr   error
	keys         map[string]*domain.SigningKey
	createdKeys  []*domain.SigningKey
}

func newMockKeyRepository() *mockKeyRepository {
	return &mockKeyRepository{keys: make(map[string]*domain.SigningKey)}
}

func (m *mockKeyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.keys[name]
	return m.existsResult || ok, nil
}

func (m *mockKeyRepository) Create(ctx context.Context, key *domain.SigningKey) error {
	if m.createErr != nil {
		return m.createErr
	}
	key.ID = "id-" + key.Name
	key.CreatedAt = time.Now()
	key.UpdatedAt = key.CreatedAt
	m.keys[key.Name] = key
	m.createdKeys = append(m.createdKeys, key)
	return nil
}

func (m *mockKeyRepository) FindByName(ctx context.Context, name string) (*domain.SigningKey, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.keys[name], nil
}

func (m *mockKeyRepository) FindAll(ctx context.Context) ([]*domain.SigningKey, error) {
	if m.findAllErr != nil {
		return nil, m.findAllErr
	}
	var result []*domain.SigningKey
	for _, name := range []string{"alpha", "beta", "gamma"} {
		if k, ok := m.keys[name]; ok {
			result = append(result, k)
		}
	}
	return result, nil
}

// mockKeyWrapper はテスト用のモック。"wrapped:" を前置するだけの可逆変換。
type mockKeyWrapper struct {
	encryptErr   error
	decryptErr   error
	decryptCalls int
}

var wrappedPrefix = []byte("wrapped:")

func (m *mockKeyWrapper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	if m.encryptErr != nil {
		return nil, m.encryptErr
	}
	return append(append([]byte{}, wrappedPrefix...), plaintext...), nil
}

func (m *mockKeyWrapper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	m.decryptCalls++
	if m.decryptErr != nil {
		return nil, m.decryptErr
	}
	if !bytes.HasPrefix(ciphertext, wrappedPrefix) {
		return nil, errors.New("not wrapped")
	}
	return append([]byte{}, ciphertext[len(wrappedPrefix):]...), nil
}

func TestKeyService_CreateKey_Ed25519(t *testing.T) {
	repo := newMockKeyRepository()
	wrapper := &mockKeyWrapper{}
	svc := NewKeyService(repo, wrapper)

	metadata, err := svc.CreateKey(context.Background(), "alpha", domain.FormatEd25519)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metadata.Name != "alpha" {
		t.Errorf("want name alpha, got %s", metadata.Name)
	}
	if metadata.Format != domain.FormatEd25519 {
		t.Errorf("want format ed25519, got %s", metadata.Format)
	}
	if len(metadata.PublicKey) != 32 {
		t.Errorf("want 32-byte public key, got %d", len(metadata.PublicKey))
	}
	if len(repo.createdKeys) != 1 {
		t.Fatalf("want 1 created key, got %d", len(repo.createdKeys))
	}
	stored := repo.createdKeys[0]
	if !bytes.HasPrefix(stored.EncryptedSecret, wrappedPrefix) {
		t.Error("secret must be stored wrapped")
	}
	if len(stored.EncryptedSecret) != len(wrappedPrefix)+32 {
		t.Errorf("want 32-byte seed inside wrapper, got %d", len(stored.EncryptedSecret)-len(wrappedPrefix))
	}
}

func TestKeyService_CreateKey_Blake3HasNoPublicKey(t *testing.T) {
	repo := newMockKeyRepository()
	svc := NewKeyService(repo, &mockKeyWrapper{})

	metadata, err := svc.CreateKey(context.Background(), "beta", domain.FormatBlake3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metadata.PublicKey != nil {
		t.Errorf("blake3 key must not expose a public key, got %x", metadata.PublicKey)
	}
	if len(repo.createdKeys[0].EncryptedSecret) != len(wrappedPrefix)+32 {
		t.Error("want 32-byte blake3 secret inside wrapper")
	}
}

func TestKeyService_CreateKey_AlreadyExists(t *testing.T) {
	repo := newMockKeyRepository()
	repo.existsResult = true
	svc := NewKeyService(repo, &mockKeyWrapper{})

	_, err := svc.CreateKey(context.Background(), "alpha", domain.FormatBlake3)
	if !errors.Is(err, domain.ErrKeyAlreadyExists) {
		t.Errorf("want ErrKeyAlreadyExists, got %v", err)
	}
	if len(repo.createdKeys) != 0 {
		t.Error("no key must be created")
	}
}

func TestKeyService_CreateKey_EncryptError(t *testing.T) {
	repo := newMockKeyRepository()
	svc := NewKeyService(repo, &mockKeyWrapper{encryptErr: errors.New("kms unavailable")})

	_, err := svc.CreateKey(context.Background(), "alpha", domain.FormatEd25519)
	if err == nil {
		t.Fatal("want error, got nil")
	}
	if len(repo.createdKeys) != 0 {
		t.Error("no key must be created when encryption fails")
	}
}

func TestKeyService_CreateKey_UnknownFormat(t *testing.T) {
	svc := NewKeyService(newMockKeyRepository(), &mockKeyWrapper{})

	_, err := svc.CreateKey(context.Background(), "alpha", domain.Format(0))
	if !errors.Is(err, domain.ErrUnknownFormat) {
		t.Errorf("want ErrUnknownFormat, got %v", err)
	}
}

func TestKeyService_GetKey_NotFound(t *testing.T) {
	svc := NewKeyService(newMockKeyRepository(), &mockKeyWrapper{})

	_, err := svc.GetKey(context.Background(), "missing")
	if !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("want ErrKeyNotFound, got %v", err)
	}
}

func TestKeyService_GetKey_RepositoryError(t *testing.T) {
	repo := newMockKeyRepository()
	repo.findErr = errors.New("db down")
	svc := NewKeyService(repo, &mockKeyWrapper{})

	_, err := svc.GetKey(context.Background(), "alpha")
	if err == nil || errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("want wrapped repository error, got %v", err)
	}
}

func TestKeyService_ListKeys(t *testing.T) {
	repo := newMockKeyRepository()
	svc := NewKeyService(repo, &mockKeyWrapper{})
	ctx := context.Background()

	if _, err := svc.CreateKey(ctx, "beta", domain.FormatBlake3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateKey(ctx, "alpha", domain.FormatEd25519); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := svc.ListKeys(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 keys, got %d", len(list))
	}
	if list[0].Name != "alpha" || list[1].Name != "beta" {
		t.Errorf("want [alpha beta], got [%s %s]", list[0].Name, list[1].Name)
	}
}

func TestKeyService_SignAndVerify(t *testing.T) {
	for _, format := range []domain.Format{domain.FormatBlake3, domain.FormatEd25519} {
		t.Run(format.String(), func(t *testing.T) {
			repo := newMockKeyRepository()
			wrapper := &mockKeyWrapper{}
			svc := NewKeyService(repo, wrapper)
			ctx := context.Background()

			if _, err := svc.CreateKey(ctx, "alpha", format); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			content := []byte("hello")
			sig, gotFormat, err := svc.SignWithKey(ctx, "alpha", content)
			if err != nil {
				t.Fatalf("SignWithKey failed: %v", err)
			}
			if gotFormat != format {
				t.Errorf("want format %s, got %s", format, gotFormat)
			}
			want, err := signing.SignatureSize(format)
			if err != nil {
				t.Fatalf("SignatureSize failed: %v", err)
			}
			if len(sig) != want {
				t.Errorf("want signature length %d, got %d", want, len(sig))
			}

			ok, err := svc.VerifyWithKey(ctx, "alpha", content, sig)
			if err != nil {
				t.Fatalf("VerifyWithKey failed: %v", err)
			}
			if !ok {
				t.Error("want valid signature")
			}

			ok, err = svc.VerifyWithKey(ctx, "alpha", []byte("hellp"), sig)
			if err != nil {
				t.Fatalf("VerifyWithKey failed: %v", err)
			}
			if ok {
				t.Error("want invalid signature for modified content")
			}
		})
	}
}

func TestKeyService_VerifyWithKey_Ed25519DoesNotDecrypt(t *testing.T) {
	repo := newMockKeyRepository()
	wrapper := &mockKeyWrapper{}
	svc := NewKeyService(repo, wrapper)
	ctx := context.Background()

	if _, err := svc.CreateKey(ctx, "alpha", domain.FormatEd25519); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig, _, err := svc.SignWithKey(ctx, "alpha", []byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wrapper.decryptCalls = 0
	wrapper.decryptErr = errors.New("kms unavailable")

	ok, err := svc.VerifyWithKey(ctx, "alpha", []byte("x"), sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("want valid signature")
	}
	if wrapper.decryptCalls != 0 {
		t.Errorf("want no decrypt calls, got %d", wrapper.decryptCalls)
	}
}

func TestKeyService_VerifyWithKey_MalformedSignature(t *testing.T) {
	repo := newMockKeyRepository()
	svc := NewKeyService(repo, &mockKeyWrapper{})
	ctx := context.Background()

	if _, err := svc.CreateKey(ctx, "alpha", domain.FormatBlake3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.VerifyWithKey(ctx, "alpha", []byte("x"), []byte{1, 2, 3})
	if !errors.Is(err, domain.ErrMalformedSignature) {
		t.Errorf("want ErrMalformedSignature, got %v", err)
	}
}

func TestKeyService_SignWithKey_NotFound(t *testing.T) {
	svc := NewKeyService(newMockKeyRepository(), &mockKeyWrapper{})

	_, _, err := svc.SignWithKey(context.Background(), "missing", []byte("x"))
	if !errors.Is(err, domain.ErrKeyNotFound) {
		t.Errorf("want ErrKeyNotFound, got %v", err)
	}
}

func TestKeyService_SignWithKey_DecryptError(t *testing.T) {
	repo := newMockKeyRepository()
	wrapper := &mockKeyWrapper{}
	svc := NewKeyService(repo, wrapper)
	ctx := context.Background()

	if _, err := svc.CreateKey(ctx, "alpha", domain.FormatBlake3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wrapper.decryptErr = errors.New("permission denied")

	_, _, err := svc.SignWithKey(ctx, "alpha", []byte("x"))
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

// passthroughKeyWrapper は入力スライスをそのまま返す。
type passthroughKeyWrapper struct{}

func (passthroughKeyWrapper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

func (passthroughKeyWrapper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	return ciphertext, nil
}

func TestKeyService_StoredSecretSurvivesUse(t *testing.T) {
	for _, format := range []domain.Format{domain.FormatBlake3, domain.FormatEd25519} {
		t.Run(format.String(), func(t *testing.T) {
			repo := newMockKeyRepository()
			svc := NewKeyService(repo, passthroughKeyWrapper{})
			ctx := context.Background()

			if _, err := svc.CreateKey(ctx, "alpha", format); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			stored := repo.keys["alpha"].EncryptedSecret
			if bytes.Equal(stored, make([]byte, len(stored))) {
				t.Fatal("stored secret must not be wiped after create")
			}
			before := bytes.Clone(stored)

			sig, _, err := svc.SignWithKey(ctx, "alpha", []byte("hello"))
			if err != nil {
				t.Fatalf("SignWithKey failed: %v", err)
			}
			if !bytes.Equal(repo.keys["alpha"].EncryptedSecret, before) {
				t.Fatal("stored secret must not change after sign")
			}

			ok, err := svc.VerifyWithKey(ctx, "alpha", []byte("hello"), sig)
			if err != nil {
				t.Fatalf("VerifyWithKey failed: %v", err)
			}
			if !ok {
				t.Error("want valid signature")
			}
			if !bytes.Equal(repo.keys["alpha"].EncryptedSecret, before) {
				t.Error("stored secret must not change after verify")
			}
		})
	}
}

func TestKeyService_CreateKey_LosesInsertRace(t *testing.T) {
	repo := newMockKeyRepository()
	// 存在確認は通過したが、挿入時に一意制約で弾かれた状態
	repo.createErr = fmt.Errorf("%w: alpha", domain.ErrKeyAlreadyExists)
	svc := NewKeyService(repo, &mockKeyWrapper{})

	_, err := svc.CreateKey(context.Background(), "alpha", domain.FormatBlake3)
	if !errors.Is(err, domain.ErrKeyAlreadyExists) {
		t.Errorf("want ErrKeyAlreadyExists, got %v", err)
	}
}

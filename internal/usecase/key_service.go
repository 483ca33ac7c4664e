package usecase

import (
	"bytes"
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"text-signing-service/internal/domain"
	"text-signing-service/internal/signing"
)

// SigningKeyRepository はデータアクセスのインターフェース。
type SigningKeyRepository interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, key *domain.SigningKey) error
	FindByName(ctx context.Context, name string) (*domain.SigningKey, error)
	FindAll(ctx context.Context) ([]*domain.SigningKey, error)
}

// KeyWrapper は秘密鍵の暗号化/復号のインターフェース（Cloud KMSまたはローカル鍵）。
type KeyWrapper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// KeyService はサーバー側で保管する署名鍵のビジネスロジックを提供する。
type KeyService struct {
	repo    SigningKeyRepository
	wrapper KeyWrapper
	tracer  trace.Tracer
}

// NewKeyService は新しいKeyServiceを生成する。
func NewKeyService(repo SigningKeyRepository, wrapper KeyWrapper) *KeyService {
	return &KeyService{
		repo:    repo,
		wrapper: wrapper,
		tracer:  otel.Tracer(tracerName),
	}
}

// CreateKey は鍵を生成し、秘密部分をKMSで暗号化して保存する。
func (s *KeyService) CreateKey(ctx context.Context, name string, format domain.Format) (*domain.KeyMetadata, error) {
	ctx, span := s.tracer.Start(ctx, "KeyService.CreateKey",
		trace.WithAttributes(attribute.String("signing.format", format.String())))
	defer span.End()

	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking existing key: %w", err)
	}
	if exists {
		return nil, domain.ErrKeyAlreadyExists
	}

	bundle, err := signing.Generate(format)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	secret, public, err := splitBundle(format, bundle)
	if err != nil {
		return nil, err
	}
	defer zero(secret)

	encrypted, err := s.wrapper.Encrypt(ctx, secret)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("encrypting key: %w", err)
	}
	// wrapper が入力を返してもゼロ化の影響を受けないようにする
	encrypted = bytes.Clone(encrypted)

	key := &domain.SigningKey{
		Name:            name,
		Format:          format,
		EncryptedSecret: encrypted,
		PublicKey:       public,
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("creating key: %w", err)
	}

	return key.Metadata(), nil
}

// GetKey は鍵のメタデータ（Ed25519の場合は公開鍵を含む）を取得する。
func (s *KeyService) GetKey(ctx context.Context, name string) (*domain.KeyMetadata, error) {
	key, err := s.find(ctx, name)
	if err != nil {
		return nil, err
	}
	return key.Metadata(), nil
}

// ListKeys は全鍵のメタデータを取得する。
func (s *KeyService) ListKeys(ctx context.Context) ([]*domain.KeyMetadata, error) {
	keys, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding keys: %w", err)
	}

	metadata := make([]*domain.KeyMetadata, len(keys))
	for i, k := range keys {
		metadata[i] = k.Metadata()
	}
	return metadata, nil
}

// SignWithKey は保管された鍵で content に署名する。
func (s *KeyService) SignWithKey(ctx context.Context, name string, content []byte) ([]byte, domain.Format, error) {
	ctx, span := s.tracer.Start(ctx, "KeyService.SignWithKey")
	defer span.End()

	key, err := s.find(ctx, name)
	if err != nil {
		return nil, 0, err
	}

	secret, err := s.unwrap(ctx, key)
	if err != nil {
		recordError(span, err)
		return nil, 0, err
	}
	defer zero(secret)

	sig, err := signing.Sign(key.Format, secret, content)
	if err != nil {
		recordError(span, err)
		return nil, 0, err
	}
	return sig, key.Format, nil
}

// VerifyWithKey は保管された鍵で署名を検証する。
// Ed25519は公開鍵のみを使い、KMSでの復号は行わない。
func (s *KeyService) VerifyWithKey(ctx context.Context, name string, content, signature []byte) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "KeyService.VerifyWithKey")
	defer span.End()

	key, err := s.find(ctx, name)
	if err != nil {
		return false, err
	}

	var verifyKey []byte
	switch key.Format {
	case domain.FormatEd25519:
		verifyKey = key.PublicKey
	case domain.FormatBlake3:
		secret, err := s.unwrap(ctx, key)
		if err != nil {
			recordError(span, err)
			return false, err
		}
		defer zero(secret)
		verifyKey = secret
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, key.Format)
	}

	ok, err := signing.Verify(key.Format, verifyKey, content, signature)
	if err != nil {
		recordError(span, err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("signing.valid", ok))
	return ok, nil
}

func (s *KeyService) find(ctx context.Context, name string) (*domain.SigningKey, error) {
	key, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("finding key: %w", err)
	}
	if key == nil {
		return nil, domain.ErrKeyNotFound
	}
	return key, nil
}

// unwrap は秘密部分を復号し、呼び出し側が所有するコピーを返す。
// Decrypt の戻り値は保存済みの暗号文とメモリを共有している場合がある。
func (s *KeyService) unwrap(ctx context.Context, key *domain.SigningKey) ([]byte, error) {
	plain, err := s.wrapper.Decrypt(ctx, key.EncryptedSecret)
	if err != nil {
		return nil, fmt.Errorf("decrypting key: %w", err)
	}
	return bytes.Clone(plain), nil
}

// splitBundle は鍵バンドルを秘密部分と公開部分に分ける。Blake3は公開部分を持たない。
func splitBundle(format domain.Format, bundle domain.KeyBundle) (secret, public []byte, err error) {
	switch format {
	case domain.FormatBlake3:
		return bundle[domain.Blake3KeyFile], nil, nil
	case domain.FormatEd25519:
		return bundle[domain.Ed25519SecretKeyFile], bundle[domain.Ed25519PublicKeyFile], nil
	default:
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrUnknownFormat, format)
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

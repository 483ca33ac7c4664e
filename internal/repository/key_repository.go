// Package repository はデータアクセス層の実装を提供する。
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"text-signing-service/internal/domain"
)

// SigningKeyModel はgorm用のモデル定義。
type SigningKeyModel struct {
	ID              string    `gorm:"type:char(36);primaryKey"`
	Name            string    `gorm:"type:varchar(64);not null;uniqueIndex:uk_signing_keys_name"`
	Format          string    `gorm:"type:varchar(16);not null;index:idx_signing_keys_format"`
	EncryptedSecret []byte    `gorm:"type:blob;not null"`
	PublicKey       []byte    `gorm:"type:blob"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime"`
}

// TableName はテーブル名を返す。
func (SigningKeyModel) TableName() string {
	return "signing_keys"
}

// BeforeCreate はレコード作成前にUUIDを生成する。
func (m *SigningKeyModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

func (m *SigningKeyModel) toDomain() (*domain.SigningKey, error) {
	format, err := domain.ParseFormat(m.Format)
	if err != nil {
		return nil, fmt.Errorf("stored key %q: %w", m.Name, err)
	}
	return &domain.SigningKey{
		ID:              m.ID,
		Name:            m.Name,
		Format:          format,
		EncryptedSecret: m.EncryptedSecret,
		PublicKey:       m.PublicKey,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

// SigningKeyRepository は署名鍵のデータアクセスを提供する。
type SigningKeyRepository struct {
	db *gorm.DB
}

// NewSigningKeyRepository は新しいSigningKeyRepositoryを生成する。
func NewSigningKeyRepository(db *gorm.DB) *SigningKeyRepository {
	return &SigningKeyRepository{db: db}
}

// ExistsByName は指定された名前の鍵が存在するか確認する。
func (r *SigningKeyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SigningKeyModel{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		slog.ErrorContext(ctx, "failed to count keys by name",
			"operation", "exists_by_name",
			"name", name,
			"error", err,
		)
		return false, err
	}
	return count > 0, nil
}

// Create は新しい署名鍵を保存する。
// 名前が重複する場合は domain.ErrKeyAlreadyExists を返す（gorm.Config.TranslateError が必要）。
func (r *SigningKeyRepository) Create(ctx context.Context, key *domain.SigningKey) error {
	model := &SigningKeyModel{
		ID:              key.ID,
		Name:            key.Name,
		Format:          key.Format.String(),
		EncryptedSecret: key.EncryptedSecret,
		PublicKey:       key.PublicKey,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 存在確認と作成の間に同名の鍵が作られた場合
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrKeyAlreadyExists, key.Name)
		}
		slog.ErrorContext(ctx, "failed to create key",
			"operation", "create",
			"name", key.Name,
			"format", key.Format.String(),
			"error", err,
		)
		return err
	}
	// gormで設定された値をドメインエンティティに反映
	key.ID = model.ID
	key.CreatedAt = model.CreatedAt
	key.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByName は指定された名前の鍵を取得する。存在しない場合は nil, nil を返す。
func (r *SigningKeyRepository) FindByName(ctx context.Context, name string) (*domain.SigningKey, error) {
	var model SigningKeyModel
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "failed to find key",
			"operation", "find_by_name",
			"name", name,
			"error", err,
		)
		return nil, err
	}
	return model.toDomain()
}

// FindAll は全鍵を名前順に取得する。
func (r *SigningKeyRepository) FindAll(ctx context.Context) ([]*domain.SigningKey, error) {
	var models []SigningKeyModel
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		slog.ErrorContext(ctx, "failed to find all keys",
			"operation", "find_all",
			"error", err,
		)
		return nil, err
	}

	keys := make([]*domain.SigningKey, 0, len(models))
	for i := range models {
		k, err := models[i].toDomain()
		if err != nil {
			slog.WarnContext(ctx, "skipping key with unknown format",
				"operation", "find_all",
				"name", models[i].Name,
				"format", models[i].Format,
			)
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

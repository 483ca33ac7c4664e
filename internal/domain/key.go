package domain

import "time"

// 鍵生成結果の論理ファイル名。
const (
	Blake3KeyFile        = "blake3.txt"
	Ed25519SecretKeyFile = "ed25519.sk"
	Ed25519PublicKeyFile = "ed25519.pk"
)

// KeyBundle は鍵生成の結果（論理ファイル名 -> 鍵バイト列）を表す。
// 永続化は呼び出し側の責務。
type KeyBundle map[string][]byte

// SigningKey はサーバー側で保管する署名鍵エンティティを表す。
type SigningKey struct {
	ID              string
	Name            string
	Format          Format
	EncryptedSecret []byte // KMSで暗号化した対称鍵またはEd25519シード
	PublicKey       []byte // Ed25519のみ
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// KeyMetadata は署名鍵のメタデータを表す（秘密鍵を含まない）。
type KeyMetadata struct {
	Name      string
	Format    Format
	PublicKey []byte
	CreatedAt time.Time
}

// Metadata は秘密鍵を除いたメタデータを返す。
func (k *SigningKey) Metadata() *KeyMetadata {
	return &KeyMetadata{
		Name:      k.Name,
		Format:    k.Format,
		PublicKey: k.PublicKey,
		CreatedAt: k.CreatedAt,
	}
}

package domain

import "time"

// MigrationStatus はマイグレーションの適用状態を表す
type MigrationStatus string

const (
	MigrationStatusPending MigrationStatus = "pending"
	MigrationStatusApplied MigrationStatus = "applied"
)

// Migration は signing_keys スキーマのマイグレーションを表す
type Migration struct {
	Version   string     // 例: "001"
	Name      string     // ファイル名から抽出（例: "create_signing_keys"）
	Path      string     // fs.FS 内のパス
	AppliedAt *time.Time // 未適用の場合はnil
	Status    MigrationStatus
}

// IsApplied は適用済みかどうかを返す。
func (m *Migration) IsApplied() bool {
	return m.Status == MigrationStatusApplied
}

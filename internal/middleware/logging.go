// Package middleware はHTTPミドルウェアと監査ログを提供する。
package middleware

import (
	"context"
	"log/slog"
	"time"

	"text-signing-service/internal/domain"
)

// 監査ログの結果値。
const (
	AuditSuccess = "SUCCESS"
	AuditFailed  = "FAILED"
)

// WriteAuditLog は保管鍵に対する操作の監査ログを出力する。鍵や署名のバイト列は出力しない。
func WriteAuditLog(ctx context.Context, operation string, keyName string, format domain.Format, result string) {
	attrs := []any{
		"operation", operation,
		"key_name", keyName,
		"result", result,
		"timestamp", time.Now().UTC().Format(time.RFC3339),
	}
	if format.IsValid() {
		attrs = append(attrs, "format", format.String())
	}
	slog.InfoContext(ctx, "key operation completed", attrs...)
}

// Package usecase はアプリケーションのユースケースを実装する。
package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"text-signing-service/internal/domain"
	"text-signing-service/internal/signing"
)

const tracerName = "text-signing-service/internal/usecase"

// TextService は鍵を呼び出し側が持つ署名・検証・鍵生成を提供する。
type TextService struct {
	tracer trace.Tracer
}

// NewTextService は新しいTextServiceを生成する。
func NewTextService() *TextService {
	return &TextService{tracer: otel.Tracer(tracerName)}
}

// Sign は r を最後まで読み込み、key で署名する。
func (s *TextService) Sign(ctx context.Context, format domain.Format, key []byte, r io.Reader) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "TextService.Sign",
		trace.WithAttributes(attribute.String("signing.format", format.String())))
	defer span.End()

	sig, err := signing.SignReader(format, key, r)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("signing content: %w", err)
	}

	slog.DebugContext(ctx, "content signed",
		"operation", "sign",
		"format", format.String(),
		"signature_len", len(sig),
	)
	return sig, nil
}

// Verify は r を最後まで読み込み、signature を検証する。不一致は false, nil を返す。
func (s *TextService) Verify(ctx context.Context, format domain.Format, key []byte, r io.Reader, signature []byte) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "TextService.Verify",
		trace.WithAttributes(attribute.String("signing.format", format.String())))
	defer span.End()

	ok, err := signing.VerifyReader(format, key, r, signature)
	if err != nil {
		recordError(span, err)
		return false, fmt.Errorf("verifying content: %w", err)
	}
	span.SetAttributes(attribute.Bool("signing.valid", ok))

	slog.DebugContext(ctx, "content verified",
		"operation", "verify",
		"format", format.String(),
		"valid", ok,
	)
	return ok, nil
}

// GenerateKey はフォーマットに応じた鍵バンドルを生成する。
func (s *TextService) GenerateKey(ctx context.Context, format domain.Format) (domain.KeyBundle, error) {
	_, span := s.tracer.Start(ctx, "TextService.GenerateKey",
		trace.WithAttributes(attribute.String("signing.format", format.String())))
	defer span.End()

	bundle, err := signing.Generate(format)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return bundle, nil
}

// WriteBundle は鍵バンドルの各エントリを dir 配下にファイルとして書き出し、書いたパスを返す。
func WriteBundle(dir string, bundle domain.KeyBundle) ([]string, error) {
	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, bundle[name], 0o600); err != nil {
			return paths, fmt.Errorf("%w: writing %s: %v", domain.ErrIO, path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

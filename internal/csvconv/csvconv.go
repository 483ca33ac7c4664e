// Package csvconv はCSVをJSON/YAMLへ変換する。
package csvconv

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"text-signing-service/internal/domain"
)

// OutputFormat は変換先のフォーマット。
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat はフォーマット名を解釈する。大文字小文字は区別しない。
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputJSON, OutputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidOutputFormat, s)
	}
}

// Options は変換オプション。
type Options struct {
	Delimiter string
	Format    OutputFormat
}

// Convert は r のCSVを読み込み、各行をヘッダーをキーとするオブジェクトにして w へ書き出す。
func Convert(r io.Reader, w io.Writer, opts Options) error {
	reader := csv.NewReader(r)
	if opts.Delimiter != "" {
		d, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) {
			return fmt.Errorf("delimiter must be a single character: %q", opts.Delimiter)
		}
		reader.Comma = d
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("csv has no header row")
		}
		return fmt.Errorf("reading csv header: %w", err)
	}

	records := make([]map[string]string, 0, 128)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading csv record: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			row[h] = record[i]
		}
		records = append(records, row)
	}

	switch opts.Format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidOutputFormat, opts.Format)
	}
}

package main

import (
	"github.com/spf13/pflag"

	"text-signing-service/internal/codec"
	"text-signing-service/internal/csvconv"
	"text-signing-service/internal/domain"
)

var (
	_ pflag.Value = (*formatValue)(nil)
	_ pflag.Value = (*base64FormatValue)(nil)
	_ pflag.Value = (*outputFormatValue)(nil)
)

// formatValue は --format フラグ。blake3 と ed25519 以外は解析時に拒否する。
type formatValue struct {
	format *domain.Format
}

func newFormatValue(def domain.Format, p *domain.Format) *formatValue {
	*p = def
	return &formatValue{format: p}
}

func (v *formatValue) String() string {
	if v.format == nil || !v.format.IsValid() {
		return ""
	}
	return v.format.String()
}

func (v *formatValue) Set(s string) error {
	f, err := domain.ParseFormat(s)
	if err != nil {
		return err
	}
	*v.format = f
	return nil
}

func (v *formatValue) Type() string { return "format" }

type base64FormatValue struct {
	format *codec.Base64Format
}

func newBase64FormatValue(def codec.Base64Format, p *codec.Base64Format) *base64FormatValue {
	*p = def
	return &base64FormatValue{format: p}
}

func (v *base64FormatValue) String() string {
	if v.format == nil {
		return ""
	}
	return string(*v.format)
}

func (v *base64FormatValue) Set(s string) error {
	f, err := codec.ParseBase64Format(s)
	if err != nil {
		return err
	}
	*v.format = f
	return nil
}

func (v *base64FormatValue) Type() string { return "base64-format" }

type outputFormatValue struct {
	format *csvconv.OutputFormat
}

func newOutputFormatValue(def csvconv.OutputFormat, p *csvconv.OutputFormat) *outputFormatValue {
	*p = def
	return &outputFormatValue{format: p}
}

func (v *outputFormatValue) String() string {
	if v.format == nil {
		return ""
	}
	return string(*v.format)
}

func (v *outputFormatValue) Set(s string) error {
	f, err := csvconv.ParseOutputFormat(s)
	if err != nil {
		return err
	}
	*v.format = f
	return nil
}

func (v *outputFormatValue) Type() string { return "output-format" }

// Package genpass は人が扱うためのランダムパスワードを生成する。
// 署名鍵の生成には使わない（文字種が限られ一様分布にならないため）。
package genpass

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ccojocar/zxcvbn-go"

	"text-signing-service/internal/domain"
)

// 紛らわしい文字（I, O, l, 0 など）は除外している。
const (
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	numberChars = "123456789"
	symbolChars = "!@#$%&*,.<>?"
)

// Options はパスワード生成オプション。
type Options struct {
	Length int
	Upper  bool
	Lower  bool
	Number bool
	Symbol bool
}

// DefaultOptions は16文字・全文字種のオプションを返す。
func DefaultOptions() Options {
	return Options{Length: 16, Upper: true, Lower: true, Number: true, Symbol: true}
}

// Generate はパスワードを生成する。有効な文字種ごとに最低1文字を含める。
func Generate(opts Options) (string, error) {
	var classes []string
	if opts.Upper {
		classes = append(classes, upperChars)
	}
	if opts.Lower {
		classes = append(classes, lowerChars)
	}
	if opts.Number {
		classes = append(classes, numberChars)
	}
	if opts.Symbol {
		classes = append(classes, symbolChars)
	}
	if len(classes) == 0 {
		return "", fmt.Errorf("%w: at least one character class is required", domain.ErrInvalidPasswordOptions)
	}
	if opts.Length < len(classes) || opts.Length > 255 {
		return "", fmt.Errorf("%w: length must be between %d and 255", domain.ErrInvalidPasswordOptions, len(classes))
	}

	var all string
	password := make([]byte, 0, opts.Length)
	for _, c := range classes {
		all += c
		ch, err := pick(c)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}
	for len(password) < opts.Length {
		ch, err := pick(all)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}

	// Fisher-Yates
	for i := len(password) - 1; i > 0; i-- {
		j, err := randIntn(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}
	return string(password), nil
}

// Strength はパスワード強度を 0〜4 で返す。
func Strength(password string) int {
	return zxcvbn.PasswordStrength(password, nil).Score
}

func pick(chars string) (byte, error) {
	i, err := randIntn(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

func randIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("reading random number: %w", err)
	}
	return int(v.Int64()), nil
}

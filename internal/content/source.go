// Package content は署名対象の入力元（ファイルまたは標準入力）を扱う。
package content

import (
	"errors"
	"fmt"
	"io"
	"os"

	"text-signing-service/internal/domain"
)

// StdinLocator は標準入力を表すロケータ。
const StdinLocator = "-"

// Source はロケータから入力を開く。
type Source struct {
	Stdin io.Reader
}

// NewSource はプロセスの標準入力を使う Source を生成する。
func NewSource() *Source {
	return &Source{Stdin: os.Stdin}
}

// Open はロケータに対応する入力を開く。"-" は標準入力、それ以外はファイルパス。
func (s *Source) Open(locator string) (io.ReadCloser, error) {
	if locator == StdinLocator {
		return io.NopCloser(s.Stdin), nil
	}
	f, err := os.Open(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	return f, nil
}

// ReadAll はロケータの内容を最後まで読み込む。
func (s *Source) ReadAll(locator string) ([]byte, error) {
	rc, err := s.Open(locator)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrIO, locator, err)
	}
	return b, nil
}

// ValidateInput は入力ファイルが存在するか確認する。"-" は常に有効。
func ValidateInput(locator string) error {
	if locator == StdinLocator {
		return nil
	}
	if _, err := os.Stat(locator); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("input file does not exist: %s", locator)
		}
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	return nil
}

// ValidateDir はパスが存在するディレクトリか確認する。
func ValidateDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("%w: %v", domain.ErrIO, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}

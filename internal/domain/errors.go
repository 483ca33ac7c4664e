package domain

import "errors"

var (
	// ErrKeyTooShort は鍵のバイト数がスキームの要求より少ない場合のエラー。
	ErrKeyTooShort = errors.New("key too short")

	// ErrInvalidKey は鍵のバイト列が有効な鍵として解釈できない場合のエラー。
	ErrInvalidKey = errors.New("invalid key")

	// ErrMalformedSignature は署名長がスキームと一致しない場合のエラー。
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrIO は入力元の読み込みに失敗した場合のエラー。
	ErrIO = errors.New("io failure")

	// ErrUnknownFormat は署名フォーマット名を解釈できない場合のエラー。
	ErrUnknownFormat = errors.New("unknown format")

	// ErrKeyNotFound は指定された名前の鍵が存在しない場合のエラー。
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyAlreadyExists は同名の鍵が既に存在する場合のエラー。
	ErrKeyAlreadyExists = errors.New("key already exists")

	// ErrInvalidKeyName は鍵名の形式が不正な場合のエラー。
	ErrInvalidKeyName = errors.New("invalid key name")

	// ErrInvalidBase64Format はBase64フォーマット名が不正な場合のエラー。
	ErrInvalidBase64Format = errors.New("invalid base64 format")

	// ErrInvalidOutputFormat はCSV変換の出力フォーマット名が不正な場合のエラー。
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidPasswordOptions はパスワード生成オプションが不正な場合のエラー。
	ErrInvalidPasswordOptions = errors.New("invalid password options")

	// ErrMigrationFailed はマイグレーション実行時のエラー。
	ErrMigrationFailed = errors.New("migration failed")

	// ErrInvalidMigrationFile はマイグレーションファイルのフォーマットが不正な場合のエラー。
	ErrInvalidMigrationFile = errors.New("invalid migration file")
)

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"text-signing-service/internal/codec"
	"text-signing-service/internal/content"
	"text-signing-service/internal/domain"
	"text-signing-service/internal/usecase"
)

// textCmd はテキスト署名のコマンド群。
func textCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Sign or verify text, or generate signing keys",
	}
	cmd.AddCommand(textSignCmd())
	cmd.AddCommand(textVerifyCmd())
	cmd.AddCommand(textKeygenCmd())
	return cmd
}

// textSignCmd は入力に署名し、署名をbase64urlで出力する。
func textSignCmd() *cobra.Command {
	var format domain.Format
	var input, keyPath string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign input with a key file and print the signature (base64url)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTextInputs(input, keyPath); err != nil {
				return err
			}
			src := &content.Source{Stdin: cmd.InOrStdin()}

			key, err := src.ReadAll(keyPath)
			if err != nil {
				return err
			}
			r, err := src.Open(input)
			if err != nil {
				return err
			}
			defer r.Close()

			sig, err := usecase.NewTextService().Sign(cmd.Context(), format, key, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), codec.EncodeBytes(sig, codec.Base64URLSafe))
			return nil
		},
	}
	cmd.Flags().VarP(newFormatValue(domain.FormatBlake3, &format), "format", "f", "Signature format: blake3, ed25519")
	cmd.Flags().StringVarP(&input, "input", "i", content.StdinLocator, "Input file (- for stdin)")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Key file: blake3.txt or ed25519.sk (required)")
	cmd.MarkFlagRequired("key")
	return cmd
}

// textVerifyCmd は署名を検証し、true/false を出力する。
func textVerifyCmd() *cobra.Command {
	var format domain.Format
	var input, keyPath, signature string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a base64url signature with a key file and print true or false",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTextInputs(input, keyPath); err != nil {
				return err
			}
			sig, err := codec.DecodeString(signature, codec.Base64URLSafe)
			if err != nil {
				return fmt.Errorf("--signature: %w", err)
			}
			src := &content.Source{Stdin: cmd.InOrStdin()}

			key, err := src.ReadAll(keyPath)
			if err != nil {
				return err
			}
			r, err := src.Open(input)
			if err != nil {
				return err
			}
			defer r.Close()

			ok, err := usecase.NewTextService().Verify(cmd.Context(), format, key, r, sig)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
	cmd.Flags().VarP(newFormatValue(domain.FormatBlake3, &format), "format", "f", "Signature format: blake3, ed25519")
	cmd.Flags().StringVarP(&input, "input", "i", content.StdinLocator, "Input file (- for stdin)")
	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "Key file: blake3.txt or ed25519.pk (required)")
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "Signature in base64url (required)")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("signature")
	return cmd
}

// textKeygenCmd は鍵を生成して出力ディレクトリに書き出す。
func textKeygenCmd() *cobra.Command {
	var format domain.Format
	var outputPath string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random blake3 or ed25519 key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := content.ValidateDir(outputPath); err != nil {
				return err
			}
			bundle, err := usecase.NewTextService().GenerateKey(cmd.Context(), format)
			if err != nil {
				return err
			}
			paths, err := usecase.WriteBundle(outputPath, bundle)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().VarP(newFormatValue(domain.FormatBlake3, &format), "format", "f", "Key format: blake3, ed25519")
	cmd.Flags().StringVarP(&outputPath, "output-path", "o", "", "Directory to write key files into (required)")
	cmd.MarkFlagRequired("output-path")
	return cmd
}

func validateTextInputs(input, keyPath string) error {
	if keyPath == content.StdinLocator && input == content.StdinLocator {
		return fmt.Errorf("--key and --input cannot both read from stdin")
	}
	if err := content.ValidateInput(input); err != nil {
		return err
	}
	return content.ValidateInput(keyPath)
}

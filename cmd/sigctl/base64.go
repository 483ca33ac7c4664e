package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"text-signing-service/internal/codec"
	"text-signing-service/internal/content"
)

// base64Cmd はBase64変換のコマンド群。
func base64Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base64",
		Short: "Base64 encode or decode",
	}
	cmd.AddCommand(base64EncodeCmd())
	cmd.AddCommand(base64DecodeCmd())
	return cmd
}

func base64EncodeCmd() *cobra.Command {
	var format codec.Base64Format
	var input string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode input to base64",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := content.ValidateInput(input); err != nil {
				return err
			}
			r, err := (&content.Source{Stdin: cmd.InOrStdin()}).Open(input)
			if err != nil {
				return err
			}
			defer r.Close()

			encoded, err := codec.Encode(r, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", content.StdinLocator, "Input file (- for stdin)")
	cmd.Flags().VarP(newBase64FormatValue(codec.Base64Standard, &format), "format", "f", "Base64 format: standard, urlsafe")
	return cmd
}

func base64DecodeCmd() *cobra.Command {
	var format codec.Base64Format
	var input string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode base64 input",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := content.ValidateInput(input); err != nil {
				return err
			}
			r, err := (&content.Source{Stdin: cmd.InOrStdin()}).Open(input)
			if err != nil {
				return err
			}
			defer r.Close()

			decoded, err := codec.Decode(r, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(decoded)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", content.StdinLocator, "Input file (- for stdin)")
	cmd.Flags().VarP(newBase64FormatValue(codec.Base64Standard, &format), "format", "f", "Base64 format: standard, urlsafe")
	return cmd
}

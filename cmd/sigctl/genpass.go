package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"text-signing-service/internal/genpass"
)

// genpassCmd はパスワードを生成し、推定強度を標準エラーに出力する。
func genpassCmd() *cobra.Command {
	opts := genpass.DefaultOptions()
	cmd := &cobra.Command{
		Use:   "genpass",
		Short: "Generate a random password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := genpass.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), password)
			fmt.Fprintf(cmd.ErrOrStderr(), "Estimated password strength: %d\n", genpass.Strength(password))
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.Length, "length", "l", opts.Length, "Password length")
	cmd.Flags().BoolVar(&opts.Upper, "upper", opts.Upper, "Include uppercase letters")
	cmd.Flags().BoolVar(&opts.Lower, "lower", opts.Lower, "Include lowercase letters")
	cmd.Flags().BoolVar(&opts.Number, "number", opts.Number, "Include digits")
	cmd.Flags().BoolVar(&opts.Symbol, "symbol", opts.Symbol, "Include symbols")
	return cmd
}

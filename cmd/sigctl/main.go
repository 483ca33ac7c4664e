// Package main はCLIツールのエントリポイント。
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"text-signing-service/internal/infra"
)

const version = "1.0.0"

var logLevel string

func main() {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sigctl",
		Short:         "Text signing toolkit and signing service CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			infra.SetupCLILogger(cmd.ErrOrStderr(), logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "Log level: DEBUG, INFO, WARN, ERROR")

	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(base64Cmd())
	rootCmd.AddCommand(genpassCmd())
	rootCmd.AddCommand(csvCmd())
	rootCmd.AddCommand(httpCmd())
	rootCmd.AddCommand(keysCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// versionCmd はバージョン情報を表示する。
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sigctl version %s\n", version)
		},
	}
}

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"text-signing-service/internal/content"
	"text-signing-service/internal/csvconv"
)

// csvCmd はCSVをJSONまたはYAMLに変換してファイルに書き出す。
func csvCmd() *cobra.Command {
	var opts csvconv.Options
	var input, output string
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Convert CSV to JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := content.ValidateInput(input); err != nil {
				return err
			}
			if output == "" {
				output = "output." + string(opts.Format)
			}

			r, err := (&content.Source{Stdin: cmd.InOrStdin()}).Open(input)
			if err != nil {
				return err
			}
			defer r.Close()

			// 変換に失敗した場合は出力ファイルを作らない
			var buf bytes.Buffer
			if err := csvconv.Convert(r, &buf, opts); err != nil {
				return err
			}

			if output == content.StdinLocator {
				_, err := buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input CSV file (required, - for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (- for stdout, default output.<format>)")
	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", ",", "Field delimiter")
	cmd.Flags().VarP(newOutputFormatValue(csvconv.OutputJSON, &opts.Format), "format", "f", "Output format: json, yaml")
	cmd.MarkFlagRequired("input")
	return cmd
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"text-signing-service/internal/domain"
)

var (
	apiURL  string
	output  string
	timeout time.Duration
)

// HTTPクライアント
var httpClient *http.Client

// keysCmd は署名サービスに保管された鍵を操作するコマンド群。
func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage keys stored in the signing service",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if root := cmd.Root(); root.PersistentPreRun != nil {
				root.PersistentPreRun(cmd, args)
			}
			if apiURL == "" {
				apiURL = os.Getenv("SIGCTL_API_URL")
			}
			httpClient = &http.Client{Timeout: timeout}
		},
	}

	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API endpoint URL (or set SIGCTL_API_URL)")
	cmd.PersistentFlags().StringVar(&output, "output", "text", "Output format: text, json")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(keysCreateCmd())
	cmd.AddCommand(keysGetCmd())
	cmd.AddCommand(keysListCmd())
	return cmd
}

type keyMetadata struct {
	Name      string `json:"name"`
	Format    string `json:"format"`
	PublicKey string `json:"public_key,omitempty"`
	CreatedAt string `json:"created_at"`
}

// keysCreateCmd は鍵の生成コマンド。
func keysCreateCmd() *cobra.Command {
	var name string
	var format domain.Format
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new signing key",
		RunE: func(cmd *cobra.Command, args []string) error {
			reqBody, err := json.Marshal(map[string]string{"name": name, "format": format.String()})
			if err != nil {
				return fmt.Errorf("encoding request: %w", err)
			}

			body, err := doRequest(http.MethodPost, "/v1/keys", bytes.NewReader(reqBody), http.StatusCreated)
			if err != nil {
				return err
			}

			if output == "json" {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(body)))
				return nil
			}
			var result keyMetadata
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s key %q\n", result.Format, result.Name)
			if result.PublicKey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Public key: %s\n", result.PublicKey)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Key name (required)")
	cmd.Flags().Var(newFormatValue(domain.FormatEd25519, &format), "format", "Key format: blake3, ed25519")
	cmd.MarkFlagRequired("name")
	return cmd
}

// keysGetCmd は鍵のメタデータ取得コマンド。
func keysGetCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get metadata of a signing key",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(http.MethodGet, "/v1/keys/"+name, nil, http.StatusOK)
			if err != nil {
				return err
			}

			if output == "json" {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(body)))
				return nil
			}
			var result keyMetadata
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name:       %s\n", result.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Format:     %s\n", result.Format)
			fmt.Fprintf(cmd.OutOrStdout(), "Created at: %s\n", result.CreatedAt)
			if result.PublicKey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Public key: %s\n", result.PublicKey)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Key name (required)")
	cmd.MarkFlagRequired("name")
	return cmd
}

// keysListCmd は鍵一覧の取得コマンド。
func keysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all signing keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(http.MethodGet, "/v1/keys", nil, http.StatusOK)
			if err != nil {
				return err
			}

			if output == "json" {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(string(body)))
				return nil
			}
			var result struct {
				Keys []keyMetadata `json:"keys"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("parsing response: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "NAME\tFORMAT\tCREATED_AT")
			for _, k := range result.Keys {
				fmt.Fprintf(w, "%s\t%s\t%s\n", k.Name, k.Format, k.CreatedAt)
			}
			return w.Flush()
		},
	}
}

// doRequest はAPIを呼び出し、期待したステータスであればボディを返す。
func doRequest(method, path string, reqBody io.Reader, wantStatus int) ([]byte, error) {
	if apiURL == "" {
		return nil, fmt.Errorf("--api-url is required (or set SIGCTL_API_URL)")
	}

	req, err := http.NewRequest(method, strings.TrimRight(apiURL, "/")+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}
	return body, nil
}

func handleErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("Error: %s", errResp.Message)
	}
	return fmt.Errorf("Error: server returned status %d", statusCode)
}

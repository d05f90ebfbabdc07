package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/api"
	"github.com/backoffice/backoffice-cli/internal/dryrun"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
)

func newAPICmd() *cobra.Command {
	var method string
	var params []string
	var jsonBody string
	var inputFile string
	var includeHeaders bool
	var silent bool

	cmd := &cobra.Command{
		Use:   "api <alias> <action>",
		Short: "Call any backoffice API action",
		Long: strings.TrimSpace(`
Call any action of a registered API base URL alias.

The alias is one the server publishes (see 'bo server aliases'). The short form
"content" is expanded to "contentApiBaseUrl". Query parameters are given with -p
and repeat for array parameters.
`),
		Example: strings.TrimSpace(`
  # GET /umbraco/backoffice/UmbracoApi/Content/GetById?id=1234
  bo api content GetById -p id=1234

  # POST with a JSON body
  bo api dictionary PostSave -X POST -d @item.json

  # Array parameters
  bo api entity GetByIds -p type=Document -p ids=1 -p ids=2
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method = strings.ToUpper(method)
			switch method {
			case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
			default:
				return fmt.Errorf("invalid HTTP method %q: must be one of GET, POST, PUT, DELETE", method)
			}
			if jsonBody != "" && inputFile != "" {
				return fmt.Errorf("cannot use both --data and --input")
			}
			query, err := parseParams(params)
			if err != nil {
				return err
			}
			body, err := readRequestBody(cmd, jsonBody, inputFile)
			if err != nil {
				return err
			}

			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			if _, err := a.serverVariables(ctx, false); err != nil {
				return err
			}
			alias := expandAlias(args[0])
			action := args[1]

			if method != http.MethodGet {
				u, err := a.client.URL(alias, action, query...)
				if err != nil {
					return err
				}
				if ok, err := maybeDryRun(cmd, &dryrun.Preview{
					Operation: "call",
					Resource:  alias,
					Method:    method,
					URL:       u,
					Details:   map[string]any{"body": body},
				}); ok {
					return err
				}
			}

			resp, err := a.client.Call(ctx, method, alias, action, query, body)
			if err != nil {
				return err
			}
			if silent {
				return nil
			}

			var decoded any
			if err := resp.Decode(&decoded); err != nil {
				decoded = string(resp.Body)
			}
			if isStructured(cmd) {
				if includeHeaders {
					return printJSON(cmd, map[string]any{"status": resp.Status, "headers": resp.Header, "body": decoded})
				}
				return printJSON(cmd, decoded)
			}

			out := iocontext.GetIO(cmd.Context()).Out
			if includeHeaders {
				_, _ = fmt.Fprintf(out, "HTTP %d\n", resp.Status)
				keys := make([]string, 0, len(resp.Header))
				for k := range resp.Header {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					_, _ = fmt.Fprintf(out, "%s: %s\n", k, strings.Join(resp.Header[k], ", "))
				}
				_, _ = fmt.Fprintln(out)
			}
			if s, ok := decoded.(string); ok {
				_, _ = fmt.Fprintln(out, s)
				return nil
			}
			if decoded == nil {
				return nil
			}
			pretty, err := json.MarshalIndent(decoded, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, string(pretty))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Query parameter key=value (repeatable)")
	cmd.Flags().StringVarP(&jsonBody, "data", "d", "", "JSON request body, or @file")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read the JSON request body from a file (- for stdin)")
	cmd.Flags().BoolVar(&includeHeaders, "include", false, "Include the response status and headers")
	cmd.Flags().BoolVar(&silent, "silent", false, "Print nothing on success")
	return cmd
}

// expandAlias accepts either a full alias or its short form: "content" -> "contentApiBaseUrl".
func expandAlias(alias string) string {
	if strings.HasSuffix(alias, "BaseUrl") {
		return alias
	}
	return alias + "ApiBaseUrl"
}

func parseParams(values []string) ([]api.Param, error) {
	params := make([]api.Param, 0, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", v)
		}
		params = append(params, api.P(key, value))
	}
	return params, nil
}

func readRequestBody(cmd *cobra.Command, data, inputFile string) (any, error) {
	var raw []byte
	switch {
	case strings.HasPrefix(data, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		raw = b
	case data != "":
		raw = []byte(data)
	case inputFile == "-":
		b, err := io.ReadAll(iocontext.GetIO(cmd.Context()).In)
		if err != nil {
			return nil, fmt.Errorf("failed to read body from stdin: %w", err)
		}
		raw = b
	case inputFile != "":
		b, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		raw = b
	default:
		return nil, nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("request body is not valid JSON: %w", err)
	}
	return body, nil
}

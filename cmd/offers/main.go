// Command offers is a terminal client for the offerscout MCP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

const defaultEndpoint = "http://localhost:8080/mcp/stream"

type rootOptions struct {
	endpoint string
	timeout  time.Duration
	json     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "offers",
		Short:         "Search job offers through an offerscout server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	endpoint := os.Getenv("OFFERSCOUT_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	cmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", endpoint, "MCP streamable HTTP endpoint")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "Request timeout")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print the raw structured result as JSON")

	cmd.AddCommand(
		newSearchCommand(opts),
		newCVCommand(opts),
		newRecentCommand(opts),
		newStatsCommand(opts),
		newInvalidateCommand(opts),
		newClearCommand(opts),
	)
	return cmd
}

// call runs one tool on a fresh session
func (o *rootOptions) call(ctx context.Context, tool string, args map[string]any) (*sdkmcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "offers-cli", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: o.endpoint}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", o.endpoint, err)
	}
	defer func() { _ = session.Close() }()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tool, err)
	}
	if res.IsError {
		return nil, errors.New(resultText(res))
	}
	return res, nil
}

// decode converts the structured content of res into T
func decode[T any](res *sdkmcp.CallToolResult) (T, error) {
	var out T
	if res.StructuredContent == nil {
		return out, errors.New("server returned no structured content")
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode result: %w", err)
	}
	return out, nil
}

func resultText(res *sdkmcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if txt, ok := c.(*sdkmcp.TextContent); ok {
			parts = append(parts, txt.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

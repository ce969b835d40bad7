package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/daybook/pkg/runner/mcp"
)

type mcpOptions struct {
	Transport string
	Host      string
	Port      int
	Path      string
	TLSCert   string
	TLSKey    string
}

func (o *mcpOptions) endpoint() string {
	p := strings.TrimSpace(o.Path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (o *mcpOptions) scheme() string {
	if o.TLSCert != "" && o.TLSKey != "" {
		return "https"
	}
	return "http"
}

func addMCP(topLevel *cobra.Command) {
	mo := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the journal over the Model Context Protocol",
		Long: `Launch an MCP server that exposes the current goals, reading plan state,
journaling stats and day saving for one user through the Model Context Protocol.`,
		Example: `
daybook mcp --transport stdio
daybook mcp --http-port 0
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := loadJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			r := mcp.Runner{
				App:              j.App,
				User:             j.User(),
				Name:             "daybook",
				Version:          "dev",
				HTTPEndpointPath: mo.endpoint(),
				HTTPServerCert:   strings.TrimSpace(mo.TLSCert),
				HTTPServerKey:    strings.TrimSpace(mo.TLSKey),
			}

			switch mcp.Transport(strings.ToLower(strings.TrimSpace(mo.Transport))) {
			case "", mcp.TransportHTTP:
				if mo.Port < 0 || mo.Port > 65535 {
					return fmt.Errorf("invalid http-port %d", mo.Port)
				}
				r.Transport = mcp.TransportHTTP
				r.HTTPListenAddr = net.JoinHostPort(strings.TrimSpace(mo.Host), strconv.Itoa(mo.Port))
				r.OnHTTPListening = func(a net.Addr) {
					fmt.Fprintf(cmd.OutOrStdout(), "serving %s's journal at %s://%s%s\n", r.User, mo.scheme(), a, r.HTTPEndpointPath)
				}
			case mcp.TransportStdio:
				r.Transport = mcp.TransportStdio
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", mo.Transport)
			}

			return r.Do(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&mo.Transport, "transport", string(mcp.TransportHTTP), "Transport to use: http or stdio.")
	f.StringVar(&mo.Host, "http-host", "127.0.0.1", "Interface for the HTTP transport.")
	f.IntVar(&mo.Port, "http-port", 8080, "Port for the HTTP transport, 0 picks a free one.")
	f.StringVar(&mo.Path, "http-path", "/mcp", "HTTP endpoint path.")
	f.StringVar(&mo.TLSCert, "http-tls-cert", "", "TLS certificate file for HTTPS.")
	f.StringVar(&mo.TLSKey, "http-tls-key", "", "TLS private key file for HTTPS.")

	topLevel.AddCommand(cmd)
}

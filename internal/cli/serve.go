package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/chat"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/server"
)

var (
	serveService string
	serveAddr    string
	serveNoChat  bool
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the colour services over HTTP",
	Long: `Run the HTTP API. By default every route group is mounted on one server;
--service mounts a single group so each can be deployed on its own.

Services:
  all            every route below
  extraction     POST /extract-colors
  palette        POST /generate-palette, GET /palette-types
  accessibility  POST /check-accessibility, POST /check-palette-accessibility,
                 GET /wcag-requirements
  chat           POST /chat, POST /chat/stream

Chat routes answer 503 when no Gemini backend can be configured.

Examples:
  colorbot serve
  colorbot serve --service palette --addr :8002
  HTTP_ADDR=:9000 colorbot serve --no-chat`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveService, "service", "", fmt.Sprintf("service to mount %v (overrides SERVICE)", server.Services()))
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveNoChat, "no-chat", false, "do not connect the chat assistant")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("service") {
		cfg.Service = serveService
	}
	if cmd.Flags().Changed("addr") {
		cfg.HTTPAddr = serveAddr
	}

	svc, err := server.ParseService(cfg.Service)
	if err != nil {
		return err
	}

	var assistant *chat.Assistant
	if !serveNoChat && (svc == server.ServiceAll || svc == server.ServiceChat) {
		assistant, err = newAssistant(cmd.Context())
		if err != nil {
			logger.Warn("chat assistant unavailable", "error", err)
		}
	}

	app, err := server.New(cfg, logger.Named("server"), assistant)
	if err != nil {
		return err
	}
	return app.Serve(cmd.Context(), http.NewServeMux())
}

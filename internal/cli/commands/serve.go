package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leapdoi/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload form and report API over HTTP",
		Long: `Start an HTTP server with an upload form and a JSON/xlsx API:

  GET  /                         upload form
  POST /api/preview              summary of the uploaded inputs (JSON)
  POST /api/reports/tract-based  Tract-Based Ownership workbook (field: combined)
  POST /api/reports/unit-based   Unit-Based DOI workbook (fields: combined, schedule)
  GET  /healthz                  liveness

The server runs until interrupted.`,
		Example: `  leapdoi serve
  leapdoi serve --addr :8080 --max-upload-mb 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd)
		},
	}
	// Read through the config loader as server.addr and server.max_upload_mb
	cmd.Flags().String("addr", "", "Listen address (default: server.addr)")
	cmd.Flags().Int("max-upload-mb", 0, "Upload size limit in MB (default: server.max_upload_mb)")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	srv := server.NewServer(server.Config{
		Addr:            cc.Cfg.Server.Addr,
		Settings:        &cc.Cfg.Settings,
		MaxUploadBytes:  cc.Cfg.Server.MaxUploadBytes(),
		ShutdownTimeout: cc.Cfg.Server.ShutdownTimeout,
		Logger:          cc.Logger,
	})
	cc.Renderer.Muted("Serving on http://" + cc.Cfg.Server.Addr + " (Ctrl+C to stop)")
	return srv.Serve(ctx)
}

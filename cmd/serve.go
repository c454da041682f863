package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lotuschain/gnome-ext-builder/internal/tui"
	"github.com/lotuschain/gnome-ext-builder/internal/web"
)

var serveAddr string

// ServeCmd represents the serve command.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser form and JSON API",
	Long: `Start an HTTP server with the extension builder form at / and a JSON
endpoint at /api/generate. Only one generation runs at a time; concurrent
submissions receive 409 Conflict.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyString(cmd, "addr", &serveAddr, cfg.Addr)

	gen, adapter, err := newGenerator(cmd.Context())
	if err != nil {
		return err
	}
	if !adapter.IsAvailable() {
		logger.Warn("no credential configured; generation requests will fail",
			zap.String("env", adapter.Provider().CredentialEnv))
	}

	srv, err := web.New(web.Options{
		Generator:            gen,
		Model:                adapter.Model(),
		ProviderName:         llmProvider,
		CredentialConfigured: adapter.IsAvailable(),
		Logger:               logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serveAddr, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "%s Serving on %s  %s\n",
		tui.SuccessStyle.Render("✓"),
		tui.FileStyle.Render("http://"+ln.Addr().String()),
		tui.ModelStyle.Render(adapter.Model()),
	)
	return srv.Serve(ctx, ln)
}

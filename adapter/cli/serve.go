package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lumina/adapter/api"
)

var (
	serveAddr       string
	serveWithWorker bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until interrupted.

Examples:
  lumina serve
  lumina serve --addr 127.0.0.1:9000
  lumina serve --with-worker   # also publish outbox messages in-process`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		container, err := app.Container(ctx)
		if err != nil {
			return err
		}

		if serveWithWorker {
			processor, err := container.NewOutboxProcessor()
			if err != nil {
				return err
			}
			if err := processor.Start(ctx); err != nil {
				return err
			}
		}

		srvCfg := api.DefaultServerConfig()
		srvCfg.Addr = app.Config.HTTPAddr
		if serveAddr != "" {
			srvCfg.Addr = serveAddr
		}
		srvCfg.ReadTimeout = app.Config.HTTPReadTimeout
		srvCfg.WriteTimeout = app.Config.HTTPWriteTimeout

		albums := api.NewAlbumHandler(container.Dispatcher, container.Mapper, app.Logger)
		server := api.NewServer(srvCfg, albums, container.Health, app.Logger)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.Config.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveWithWorker, "with-worker", false, "run the outbox processor in this process")
	rootCmd.AddCommand(serveCmd)
}

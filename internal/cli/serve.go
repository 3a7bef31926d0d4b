package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"

	httpadapter "threatdash/internal/adapters/http"
	"threatdash/internal/logging"
	"threatdash/internal/services/reports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"listen_addr":     "listen",
			"store_driver":    "store",
			"max_connections": "max-connections",
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logging.Log

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		store, err := openStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		reg, match := newMatcher(cfg, log)
		srv := httpadapter.New(match, reports.New(store, reg), reg, log)
		r := chi.NewRouter()
		r.Mount("/", srv.Routes())

		ln, err := net.Listen("tcp", cfg.ListenAddr)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		if cfg.MaxConnections > 0 {
			ln = netutil.LimitListener(ln, cfg.MaxConnections)
		}
		httpSrv := &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() { errCh <- httpSrv.Serve(ln) }()
		log.WithField("store", cfg.StoreDriver).Infof("starting threat analysis app on %s", ln.Addr())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			log.Infof("shutting down on %s", sig)
			cancel()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return httpSrv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "listen address (overrides PORT and LISTEN_ADDR)")
	serveCmd.Flags().String("store", "", "report store: file, postgres or sqlite")
	serveCmd.Flags().Int("max-connections", 0, "cap on concurrent connections, 0 for no cap")
}

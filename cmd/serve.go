package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/config"
	"github.com/M0inUddin/Credit-Report-PDF-Analyzer/pkg/web"
)

var (
	serveAddr string
	maxUpload int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form for uploading and grading reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGrader()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}
		if addr == "" {
			addr = config.DefaultAddr
		}

		s := &web.Server{Grader: g, Logger: logger, MaxUpload: maxUpload}
		srv := &http.Server{
			Addr:              addr,
			Handler:           s.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			logger.Info("serving", zap.String("addr", addr), zap.String("rule_set", g.Engine.Name()))
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			return err
		case <-cmd.Context().Done():
		}

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, else "+config.DefaultAddr+")")
	serveCmd.Flags().Int64Var(&maxUpload, "max-upload", web.DefaultMaxUpload, "Largest accepted PDF in bytes")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/infra/queue"
)

var withWorker bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume approved outreach from RabbitMQ and mail it",
	RunE:  runWorker,
}

func init() {
	serveCmd.Flags().BoolVar(&withWorker, "with-worker", false, "also consume the outreach queue in this process")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if withWorker {
		if a.rabbit == nil {
			return errors.New("--with-worker needs AMQP_URL")
		}
		go func() {
			w := queue.NewWorker(a.rabbit.Ch, a.mailer, logger.Named("worker"))
			if err := w.Start(ctx, queue.QueueName); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func runWorker(cmd *cobra.Command, args []string) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.mailer.Configured() {
		logger.Warn("MAIL_HOST is not set; every message will be dead-lettered")
	}

	w := queue.NewWorker(a.rabbit.Ch, a.mailer, logger.Named("worker"))
	if err := w.Start(ctx, queue.QueueName); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/chirp/webhook"
)

var (
	listenAddr  string
	webhookPath string
	noSignature bool
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Receive account activity events",
}

var webhookServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the account activity webhook",
	Long: `Serve the account activity webhook: answer CRC challenges, verify delivery
signatures and print every event received until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWebhookServe,
}

func init() {
	webhookServeCmd.Flags().StringVar(&listenAddr, "listen", "", "address to listen on (default from config)")
	webhookServeCmd.Flags().StringVar(&webhookPath, "path", "", "URL path of the webhook (default from config)")
	webhookServeCmd.Flags().BoolVar(&noSignature, "no-signature-check", false, "accept unsigned deliveries (local testing only)")

	webhookCmd.AddCommand(webhookServeCmd)
	rootCmd.AddCommand(webhookCmd)
}

func runWebhookServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if cfg.Twitter.ConsumerSecret == "" {
		return fmt.Errorf("twitter.consumer_secret is required to answer CRC challenges")
	}

	addr := cfg.Webhook.Listen
	if listenAddr != "" {
		addr = listenAddr
	}
	path := cfg.Webhook.Path
	if webhookPath != "" {
		path = webhookPath
	}

	handler, err := webhook.NewHandler(cfg.Twitter.ConsumerSecret,
		webhook.WithCache(store),
		webhook.WithSignatureCheck(!noSignature),
		webhook.WithLogger(logger.With().Str("module", "webhook").Logger()),
	)
	if err != nil {
		return err
	}
	handler.OnAny(func(_ context.Context, ev webhook.Event) {
		fmt.Println(formatter.FormatEvent(ev))
	})

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Webhook server shutdown failed")
		}
	}()

	logger.Info().Str("address", lis.Addr().String()).Str("path", path).Msg("Ready to accept webhook deliveries")
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webhook server failed: %w", err)
	}
	return nil
}

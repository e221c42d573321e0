package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helpdeskhq/waverly/internal/admin"
	"github.com/helpdeskhq/waverly/internal/bots"
	"github.com/helpdeskhq/waverly/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant server",
	Long:  `Starts the HTTP server: the WhatsApp webhook, the admin API, and the live event feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := buildStack(cfgFile)
		if err != nil {
			return err
		}
		defer st.close()

		hub := admin.NewHub()
		responder := st.responder(hub)

		gateway := bots.NewGateway(bots.NewProcessor(responder))
		sender := bots.NewCloudSender(st.cfg.WhatsApp.AccessToken, st.cfg.WhatsApp.PhoneNumberID)
		whatsapp := bots.NewWhatsAppHandler(gateway, sender, st.cfg.WebhookSecret, st.cfg.WhatsApp.VerifyToken)

		port := servePort
		if port == 0 {
			port = st.cfg.Port
		}
		srv := server.New(server.Config{Port: port, AllowAll: true})

		bots.RegisterRoutes(srv.Router(), whatsapp)
		admin.RegisterRoutes(srv.Router(), st.cfg, cfgFile, st.store, st.policy, hub)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "waverly v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Data dir: %s\n", st.cfg.DataDir)
		fmt.Fprintf(os.Stderr, "  Indexed chunks: %d\n", st.store.ChunkCount())
		if !st.provider.Configured() {
			fmt.Fprintln(os.Stderr, "  Warning: no OPENAI_API_KEY set; replies will use the grounded fallback")
		}

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

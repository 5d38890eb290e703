package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ratlist/internal/config"
	"ratlist/internal/oauth"
	"ratlist/internal/server"
	"ratlist/internal/services"
	"ratlist/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the web server. Usage:

	ratlist serve
`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func warnInsecureDefaults(cfg *config.Config) {
	if cfg.UsesDefaultSessionSecret() {
		log.Println("Warning: SESSION_SECRET is not set; session cookies are signed with the public default secret")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Printf("Loaded %s", cfg)
	warnInsecureDefaults(cfg)

	stores, err := server.OpenStores(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open stores: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(ctx); err != nil {
			log.Printf("Error closing stores: %v", err)
		}
	}()

	deps := server.Dependencies{
		Users:         stores.Users,
		Tasks:         stores.Tasks,
		Sessions:      stores.Sessions,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		CookieSecure:  cfg.CookieSecure,
		AccessLog:     true,
	}

	if cfg.GoogleEnabled() {
		deps.Provider = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleSecret, cfg.CallbackURL)
	} else {
		log.Println("CLIENT_ID/CLIENT_SECRET not set; Google login disabled")
	}

	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: task events disabled: %v", err)
		} else {
			defer mqClient.Close()
			deps.Publisher = services.EventPublisher(mqClient)
			if err := mqClient.ConsumeTaskEvents(rabbitmq.LogTaskEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	app := server.NewApp(deps)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	listenErr := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s", cfg.Addr())
		listenErr <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

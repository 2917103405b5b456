package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief/internal/stubserver"
	"github.com/podbrief/podbrief/pkg/config"
)

var (
	stubHost string
	stubPort int
)

// stubServerCmd represents the stub-server command
var stubServerCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run a local stand-in for the summarization backend",
	Long: `Run an in-process stand-in for the summarization backend, for local
development and end-to-end tests. Processing is simulated: submitted
episodes advance through the status lifecycle on a ticker and complete
with a synthetic transcript and summary.

Example:
  podbrief stub-server --port 8000
  podbrief --backend-url http://localhost:8000 login --email dev@example.com --password dev`,
	RunE: runStubServer,
}

func init() {
	rootCmd.AddCommand(stubServerCmd)

	stubServerCmd.Flags().StringVar(&stubHost, "host", "", "listen host (overrides config)")
	stubServerCmd.Flags().IntVar(&stubPort, "port", 0, "listen port (overrides config)")
}

func runStubServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if stubHost == "" {
		stubHost = cfg.Stub.Host
	}
	if stubPort == 0 {
		stubPort = cfg.Stub.Port
	}
	addr := fmt.Sprintf("%s:%d", stubHost, stubPort)

	server, err := stubserver.NewServer(stubserver.Options{
		Address:         addr,
		DatabasePath:    cfg.Stub.DatabasePath,
		AdvanceInterval: cfg.Stub.AdvanceInterval,
		Verbose:         cfg.Stub.Verbose,
		SeedUsers:       map[string]string{"dev@example.com": "dev"},
	})
	if err != nil {
		return fmt.Errorf("starting stub backend: %w", err)
	}

	fmt.Printf("Stub backend listening on %s (seed user dev@example.com / dev)\n", addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(cmd.Context()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-stop:
		fmt.Println("\nShutting down stub backend...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down stub backend...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Stub.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Stub backend forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Stub backend stopped")
	return nil
}

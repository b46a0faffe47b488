package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencourtlab/guideway/internal/adapters"
	"github.com/opencourtlab/guideway/internal/logging"
	httpAdapter "github.com/opencourtlab/guideway/pkg/adapters/http"
	redisAdapter "github.com/opencourtlab/guideway/pkg/adapters/redis"
	"github.com/opencourtlab/guideway/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kiosk HTTP server",
	Long:  `Exposes the rendering contract over HTTP: one session per kiosk pane, plus /metrics and a Mermaid map-view endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for shared session storage (default: file store)")
}

func runServe(cmd *cobra.Command) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(slog.LevelInfo)

	var store ports.StateStore
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		store = redisAdapter.New(addr, "", 0)
	} else {
		sessionsDir, _ := cmd.Flags().GetString("sessions-dir")
		store = adapters.NewFileStore(sessionsDir)
	}

	server := httpAdapter.NewServer(g,
		httpAdapter.WithStore(store),
		httpAdapter.WithLogger(logger),
	)

	port, _ := cmd.Flags().GetString("port")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("Starting Guideway server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Println("Guideway server stopped gracefully")
		return nil
	}
}

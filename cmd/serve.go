package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theapemachine/a2a-rpc/pkg/a2a"
	"github.com/theapemachine/a2a-rpc/pkg/delegate"
	"github.com/theapemachine/a2a-rpc/pkg/logging"
	"github.com/theapemachine/a2a-rpc/pkg/queue"
	"github.com/theapemachine/a2a-rpc/pkg/server"
	"github.com/theapemachine/a2a-rpc/pkg/state"
)

var (
	agentKeyFlag string
	logFileFlag  string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve an A2A agent over JSON-RPC and the binary transport",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveAgent()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&agentKeyFlag, "agent", "default", "agent.<key> section of the config to serve")
	serveCmd.Flags().StringVar(&logFileFlag, "log-file", defaultLogFilePath(), "file to append a2a server logs to")
}

func defaultLogFilePath() string {
	home, _ := os.UserHomeDir()
	return home + "/." + projectName + "/a2a-rpc.log"
}

func serveAgent() error {
	if err := logging.Init(logFileFlag); err != nil {
		return err
	}
	defer logging.Close()

	card := a2a.NewAgentCardFromConfig(agentKeyFlag)

	jsonrpcAddr := viper.GetString("server.jsonrpc.addr")
	grpcAddr := viper.GetString("server.grpc.addr")
	shutdownTimeout := viper.GetDuration("server.shutdownTimeout")

	d := delegate.New(state.NewStore(), queue.NewBoundedQueue(queue.DefaultCapacity), delegate.NoopAgent{})

	srv := server.New(d, server.Config{
		JSONRPCAddr:     jsonrpcAddr,
		GRPCAddr:        grpcAddr,
		Card:            card,
		ShutdownTimeout: shutdownTimeout,
	})

	if err := srv.Start(); err != nil {
		log.Error("failed to start a2a server", "error", err)
		return err
	}

	if addr, ok := srv.LocalAddr(a2a.TransportJSONRPC); ok {
		log.Info("serving JSON-RPC transport", "addr", addr.String())
	}
	if addr, ok := srv.LocalAddr(a2a.TransportGRPC); ok {
		log.Info("serving binary transport", "addr", addr.String())
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutdown signal received")
	case err := <-joinAsync(srv):
		if err != nil {
			log.Error("a2a server failed", "error", err)
			return err
		}
	}

	timeout := shutdownTimeout
	if timeout <= 0 {
		timeout = server.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("a2a server shutdown error", "error", err)
		return err
	}

	log.Info("a2a server stopped")
	return nil
}

// joinAsync runs Server.Join in the background so serveAgent can race it
// against the interrupt signal without blocking on either exclusively.
func joinAsync(srv *server.Server) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- srv.Join() }()
	return ch
}

var longServe = `
Serve an A2A agent over both transports: JSON-RPC 2.0 at server.jsonrpc.addr
and the binary wire at server.grpc.addr. Leaving either address empty in
config.yml disables that transport.
`

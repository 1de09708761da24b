// Command canteenctl drives a running canteen server over gRPC.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/rl1809/canteen/internal/adapter/handler/rpc"
)

var (
	serverAddr string
	authToken  string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "canteenctl",
	Short:         "Canteen ordering client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "localhost:50051", "gRPC server address")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "session token (or set CANTEEN_TOKEN env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-command timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(stressCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func dial() (*rpc.CanteenServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", serverAddr, err)
	}
	return rpc.NewCanteenServiceClient(conn), func() { conn.Close() }, nil
}

// authContext attaches the session token, if any, to outgoing calls.
func authContext(ctx context.Context) context.Context {
	token := authToken
	if token == "" {
		token = os.Getenv("CANTEEN_TOKEN")
	}
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

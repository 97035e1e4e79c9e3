package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/huepham/openhouse/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the user service and checks whether the stored bearer token is still valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	serverURL := getServerURL()
	token := getAccessToken()

	fmt.Printf("Server:  %s\n", serverURL)

	if token == "" {
		fmt.Println("Token:   not configured")
		fmt.Println("\nRun 'oh login' to authenticate.")
		return nil
	}

	prefix := token
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	fmt.Printf("Token:   %s…\n", prefix)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := newAPIClient().TestAuth(ctx)
	switch {
	case err == nil:
		fmt.Println("Status:  ✓ connected and authenticated")
	case isTransportFailure(err):
		fmt.Printf("Status:  ✗ cannot reach server (%v)\n", err)
	default:
		fmt.Println("Status:  ✗ token rejected")
		fmt.Println("\nRun 'oh login' to re-authenticate.")
	}

	return nil
}

func isTransportFailure(err error) bool {
	var terr *client.TransportError
	return errors.As(err, &terr)
}

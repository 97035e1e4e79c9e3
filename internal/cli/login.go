package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huepham/openhouse/internal/client"
)

func newLoginCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the user service",
		Long:  "Prompts for credentials, logs in to the remote user service, and stores the bearer token for later commands.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or the hosted service)")

	return cmd
}

func runLogin(serverFlag string) error {
	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("no username provided")
	}

	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return fmt.Errorf("no password provided")
	}

	api := client.New(serverURL, "")
	res, err := api.Login(context.Background(), username, password)
	if err != nil {
		return err
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	cfg.AccessToken = res.AccessToken
	cfg.Username = username
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Logged in as %s. Token saved.\n", username)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/huepham/openhouse/internal/client"
)

func newCRMCmd() *cobra.Command {
	var (
		skip   int
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "crm",
		Short: "List users from the CRM",
		Long: `List users from the remote user service.

Requires a stored bearer token (run 'oh login' first). The --search filter
matches name, email, and phone locally.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCRM(skip, limit, search)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "number of users to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum users to fetch")
	cmd.Flags().StringVar(&search, "search", "", "filter by name, email, or phone")

	return cmd
}

func runCRM(skip, limit int, search string) error {
	if getAccessToken() == "" {
		return fmt.Errorf("not logged in (run 'oh login' first)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := newAPIClient().ListUsers(ctx, skip, limit)
	if err != nil {
		return err
	}

	users = filterUsers(users, search)

	if isJSON() {
		return printJSON(users)
	}
	return printUserTable(users)
}

// filterUsers keeps users whose name, email, or phone contains the query,
// case-insensitively. An empty query keeps everything.
func filterUsers(users []client.User, query string) []client.User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users
	}

	var matched []client.User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.FullName()), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.Phone), q) {
			matched = append(matched, u)
		}
	}
	return matched
}

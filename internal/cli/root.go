// Package cli defines the cobra command tree for the open-house kiosk.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huepham/openhouse/internal/client"
	"github.com/huepham/openhouse/internal/db"
	"github.com/huepham/openhouse/internal/logging"
	"github.com/huepham/openhouse/internal/store"
)

var (
	flagFormat  string
	flagDB      string
	flagVerbose bool
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oh",
		Short:         "Collect open-house visitor sign-ins",
		Long:          "Run an open-house sign-in kiosk from the terminal: disclosure, visitor info, signature, and summary, with CSV/PDF/XLSX export and a CRM view backed by the remote user service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(flagVerbose)
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/oh/openhouse.db)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSigninCmd(),
		newListCmd(),
		newExportCmd(),
		newSettingsCmd(),
		newClearCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newCRMCmd(),
		newVersionCmd(),
	)

	return root
}

// openStore opens the local database using the --db flag or default path.
func openStore() (*store.Store, *sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
	}

	database, err := db.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return store.New(database), database, nil
}

// newAPIClient creates a client for the remote user service, with any
// stored bearer token attached.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getAccessToken())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}

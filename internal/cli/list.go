package cli

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded sign-ins",
		Long:  "List all sign-ins recorded on this device, in the order visitors signed in.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func runList() error {
	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB(database)

	list := st.Visitors()

	if isJSON() {
		return printJSON(list)
	}
	return printVisitorTable(list)
}

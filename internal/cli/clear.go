package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sign-ins",
		Long:  "Deletes every recorded sign-in from this device. Agent settings are kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runClear(yes bool) error {
	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB(database)

	count := len(st.Visitors())
	if count == 0 {
		fmt.Println("No sign-ins to clear.")
		return nil
	}

	if !yes {
		fmt.Printf("Delete all %d sign-ins? [y/N]: ", count)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := st.ClearVisitors(); err != nil {
		return err
	}

	fmt.Printf("✓ Cleared %d sign-ins.\n", count)
	return nil
}

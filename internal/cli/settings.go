package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	var (
		address   string
		brokerage string
		agent     string
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update agent settings",
		Long: `Show the agent settings, or update them with flags.

Examples:
  oh settings
  oh settings --address "1833 Gale Ave, Hermosa Beach, CA"
  oh settings --brokerage "Compass HB Team" --agent "Alex Agent"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(cmd, address, brokerage, agent)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "property address")
	cmd.Flags().StringVar(&brokerage, "brokerage", "", "brokerage/team name")
	cmd.Flags().StringVar(&agent, "agent", "", "agent of record")

	return cmd
}

func runSettings(cmd *cobra.Command, address, brokerage, agent string) error {
	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB(database)

	cfg := st.Settings()

	changed := false
	if cmd.Flags().Changed("address") {
		cfg.PropertyAddress = address
		changed = true
	}
	if cmd.Flags().Changed("brokerage") {
		cfg.BrokerageTeam = brokerage
		changed = true
	}
	if cmd.Flags().Changed("agent") {
		cfg.AgentOfRecord = agent
		changed = true
	}

	if changed {
		if err := st.SaveSettings(cfg); err != nil {
			return err
		}
		cfg = st.Settings()
	}

	if isJSON() {
		return printJSON(cfg)
	}

	fmt.Printf("Property Address:  %s\n", cfg.PropertyAddress)
	fmt.Printf("Brokerage/Team:    %s\n", cfg.BrokerageTeam)
	fmt.Printf("Agent of Record:   %s\n", cfg.AgentOfRecord)
	if changed {
		fmt.Println("\n✓ Settings saved.")
	}
	return nil
}

// Package settings provides the agent/property settings model.
package settings

import "strings"

// DefaultPropertyAddress seeds the settings on first launch.
const DefaultPropertyAddress = "1833 Gale Ave, Hermosa Beach, CA"

// Settings holds the open house being run: the property address plus the
// brokerage and agent-of-record lines shown on disclosures and exports.
type Settings struct {
	PropertyAddress string `json:"property_address"`
	BrokerageTeam   string `json:"brokerage_team"`
	AgentOfRecord   string `json:"agent_of_record"`
}

// Default returns settings with the default property address.
func Default() Settings {
	return Settings{PropertyAddress: DefaultPropertyAddress}
}

// Normalize restores the default address when it has been blanked out. The
// property address is the one field that must never be empty.
func (s *Settings) Normalize() {
	if strings.TrimSpace(s.PropertyAddress) == "" {
		s.PropertyAddress = DefaultPropertyAddress
	}
}

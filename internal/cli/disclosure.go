package cli

import (
	"fmt"
	"time"

	"github.com/huepham/openhouse/internal/settings"
)

// disclosureSection is one numbered term of the non-agency disclosure.
type disclosureSection struct {
	title string
	body  string
}

var disclosureSections = []disclosureSection{
	{
		title: "AGENT DOES NOT REPRESENT VISITOR",
		body: "Unless otherwise agreed in writing, Agent is not working with and has not " +
			"entered into a representation agreement with Visitor that would apply to the Property.",
	},
	{
		title: "COMMUNICATION WITH AGENT AT OPEN HOUSE/PROPERTY TOUR FOR BENEFIT OF SELLER",
		body: "Any communication or sharing of information that Agent has with Visitor during " +
			"the open house/property tour regarding the Property is for the benefit of the seller. " +
			"All acts of Agent at the open house/property tour, even those that assist Visitor in " +
			"deciding whether to make an offer on the Property are for the benefit of the seller exclusively.",
	},
	{
		title: "COMMUNICATION WITH AGENT ARE NOT CONFIDENTIAL",
		body: "Any information that Visitor reveals to Agent at the open house/property tour " +
			"may be conveyed to the seller.",
	},
	{
		title: "IF VISITOR WRITES AN OFFER ON THE PROPERTY",
		body: "Through Agent, at that time Agent will disclose if Agent and Agent's Broker " +
			"represent the seller exclusively or both the seller and the Visitor.",
	},
	{
		title: "IF VISITOR WANTS TO BE REPRESENTED BY THE AGENT HOLDING THE OPEN HOUSE",
		body: "Visitor should sign a representation agreement with the Agent holding the open " +
			"house such as a Property Showing and Representation Agreement (C.A.R. Form PSRA) or " +
			"Buyer Representation and Broker Compensation Agreement (C.A.R. Form BRBC). If Visitor " +
			"is in an exclusive relationship with another agent, this is not intended as a " +
			"solicitation of Visitor.",
	},
}

// printDisclosure renders the full non-agency disclosure for the property.
func printDisclosure(cfg settings.Settings, now time.Time) {
	fmt.Println("OPEN HOUSE VISITOR NON-AGENCY DISCLOSURE AND SIGN-IN")
	fmt.Println("(Can be used for open house or individual private showings)")
	fmt.Println("(C.A.R. Form OHNA-SI, Revised 12/24)")
	fmt.Println()
	fmt.Printf("Property address (\"Property\"): %s\n", cfg.PropertyAddress)
	fmt.Printf("Date: %s\n", now.Format("2 Jan 2006"))
	fmt.Printf("Real estate agent(s) (\"Agent\"): %s\n", cfg.AgentOfRecord)
	fmt.Printf("Real estate broker (\"Broker\"): %s\n", cfg.BrokerageTeam)
	fmt.Println()
	fmt.Println("VISITOR INTENTION TO VIEW PROPERTY")
	fmt.Println()
	fmt.Println("Agent is holding an open house or conducting in-person or live virtual tours")
	fmt.Println("of the Property identified above. Visitor is interested in viewing the")
	fmt.Println("Property. Agent agrees to show property to Visitor on the following terms")
	fmt.Println("and conditions:")
	fmt.Println()
	for i, s := range disclosureSections {
		fmt.Printf("%d. %s\n", i+1, s.title)
		fmt.Printf("   %s\n\n", s.body)
	}
	fmt.Println("Note: Real estate broker commissions are not set by law and are fully negotiable.")
}

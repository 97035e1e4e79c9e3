package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/huepham/openhouse/internal/client"
	"github.com/huepham/openhouse/internal/visitor"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printVisitorTable prints the sign-in list as a formatted table.
func printVisitorTable(list []visitor.Record) error {
	if len(list) == 0 {
		fmt.Println("No sign-ins yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tAGENT\tSIGNED AT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-----\t-----\t-----\t---------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, r := range list {
		signedAt := "-"
		if r.SignedAt != nil {
			signedAt = r.SignedAt.Format("2006-01-02 15:04")
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ShortID(), truncate(r.FullName, 30), truncate(r.Email, 30),
			r.Phone, yesNo(r.HasAgent), signedAt); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d sign-ins\n", len(list))
	return nil
}

// printUserTable prints CRM users as a formatted table.
func printUserTable(users []client.User) error {
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tNOTE"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t-----\t-----\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, u := range users {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			u.ID, truncate(u.FullName(), 30), truncate(u.Email, 30),
			u.Phone, truncate(u.Note, 40)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d users\n", len(users))
	return nil
}

// printSummaryCard prints the done-screen summary for a signed record.
func printSummaryCard(r visitor.Record) {
	fmt.Println("Summary")
	fmt.Printf("  Name:               %s\n", r.FullName)
	fmt.Printf("  Email:              %s\n", r.Email)
	fmt.Printf("  Phone:              %s\n", r.Phone)
	fmt.Printf("  Has Agent:          %s\n", yesNo(r.HasAgent))
	if r.HasAgent {
		fmt.Printf("  Agent Name:         %s\n", r.AgentName)
		fmt.Printf("  Agent Email:        %s\n", r.AgentEmail)
		fmt.Printf("  Agent Phone:        %s\n", r.AgentPhone)
	}
	fmt.Printf("  Agreed Disclosure:  %s\n", yesNo(r.AgreedToDisclosure))
	signedAt := "—"
	if r.SignedAt != nil {
		signedAt = r.SignedAt.Format("Jan 2, 2006 at 3:04 PM")
	}
	fmt.Printf("  Signed At:          %s\n", signedAt)
	if len(r.SignaturePNG) > 0 {
		fmt.Printf("  Signature:          captured (%d bytes)\n", len(r.SignaturePNG))
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

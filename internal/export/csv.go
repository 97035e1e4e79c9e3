// Package export renders sign-in records to CSV, PDF, and XLSX.
package export

import (
	"strings"
	"time"

	"github.com/huepham/openhouse/internal/visitor"
)

// CSVFilename is the fixed filename for the sign-in sheet export.
const CSVFilename = "OpenHouseSignIns.csv"

// columns is the sign-in sheet header, shared by the CSV and XLSX exports.
var columns = []string{
	"Full Name", "Email", "Phone", "Has Agent", "Agent Name", "Agent Email",
	"Agent Phone", "Agreed Disclosure", "Signed At",
}

// CSV renders the sign-in list: one header row, then one row per record in
// list order. Fields are quoted only when they contain a comma, quote, or
// newline, with internal quotes doubled. This is the profile the sheet has
// always used, so spreadsheets built on prior exports keep importing cleanly.
func CSV(list []visitor.Record) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	b.WriteByte('\n')

	for _, r := range list {
		fields := []string{
			escapeCSV(r.FullName),
			escapeCSV(r.Email),
			escapeCSV(r.Phone),
			yesNo(r.HasAgent),
			escapeCSV(r.AgentName),
			escapeCSV(r.AgentEmail),
			escapeCSV(r.AgentPhone),
			yesNo(r.AgreedToDisclosure),
			formatSignedAt(r.SignedAt),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	return []byte(b.String())
}

// escapeCSV wraps a field in quotes when it contains a comma, quote, or
// newline, doubling any internal quote.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// formatSignedAt renders a timestamp as ISO-8601 UTC, or "" when unset.
func formatSignedAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

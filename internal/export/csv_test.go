package export

import (
	"strings"
	"testing"
	"time"

	"github.com/huepham/openhouse/internal/visitor"
)

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Taylor Brooks", "Taylor Brooks"},
		{"comma and quote", `a,b"c`, `"a,b""c"`},
		{"comma only", "Hermosa Beach, CA", `"Hermosa Beach, CA"`},
		{"quote only", `the "best" house`, `"the ""best"" house"`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeCSV(tt.in); got != tt.want {
				t.Errorf("escapeCSV(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCSVHeaderOnly(t *testing.T) {
	out := string(CSV(nil))
	want := "Full Name,Email,Phone,Has Agent,Agent Name,Agent Email,Agent Phone,Agreed Disclosure,Signed At\n"
	if out != want {
		t.Errorf("empty export = %q, want header only", out)
	}
}

func TestCSVRows(t *testing.T) {
	signed := time.Date(2025, 8, 10, 14, 30, 0, 0, time.UTC)
	list := []visitor.Record{
		{
			FullName:           "Taylor Brooks",
			Email:              "taylor@example.com",
			Phone:              "(555) 123-4567",
			HasAgent:           true,
			AgentName:          "Jordan Lee",
			AgentEmail:         "jordan@broker.com",
			AgentPhone:         "(555) 987-6543",
			AgreedToDisclosure: true,
			SignedAt:           &signed,
		},
		{
			FullName:           "Rivera, Sam",
			Email:              "sam@example.com",
			AgreedToDisclosure: true,
		},
	}

	lines := strings.Split(strings.TrimRight(string(CSV(list)), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	want1 := "Taylor Brooks,taylor@example.com,(555) 123-4567,Yes,Jordan Lee,jordan@broker.com,(555) 987-6543,Yes,2025-08-10T14:30:00Z"
	if lines[1] != want1 {
		t.Errorf("row 1 = %q\nwant     %q", lines[1], want1)
	}

	want2 := `"Rivera, Sam",sam@example.com,,No,,,,Yes,`
	if lines[2] != want2 {
		t.Errorf("row 2 = %q\nwant     %q", lines[2], want2)
	}
}

func TestCSVNonUTCTimestampNormalized(t *testing.T) {
	loc := time.FixedZone("PDT", -7*60*60)
	signed := time.Date(2025, 8, 10, 7, 30, 0, 0, loc)
	list := []visitor.Record{{FullName: "Taylor Brooks", Email: "t@example.com", SignedAt: &signed}}

	out := string(CSV(list))
	if !strings.Contains(out, "2025-08-10T14:30:00Z") {
		t.Errorf("expected UTC timestamp in output, got %q", out)
	}
}

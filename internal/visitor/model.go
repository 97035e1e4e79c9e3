// Package visitor provides the sign-in record domain model.
package visitor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record represents one visitor's sign-in: disclosure acknowledgement,
// contact info, buyer's-agent details, and signature.
//
// A record is mutable while it is the in-progress sign-in; once signed it is
// appended to the persisted list and never edited again.
type Record struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	HasAgent           bool       `json:"has_agent"`
	AgentName          string     `json:"agent_name"`
	AgentEmail         string     `json:"agent_email"`
	AgentPhone         string     `json:"agent_phone"`
	AgreedToDisclosure bool       `json:"agreed_to_disclosure"`
	SignedAt           *time.Time `json:"signed_at,omitempty"`
	SignaturePNG       []byte     `json:"signature_png,omitempty"`
}

// New returns an empty record with a fresh id.
func New() Record {
	return Record{ID: uuid.NewString()}
}

// HasContactInfo reports whether the required full name and email are
// present after trimming whitespace.
func (r Record) HasContactInfo() bool {
	return strings.TrimSpace(r.FullName) != "" && strings.TrimSpace(r.Email) != ""
}

// Signable reports whether the record may be finalized and appended to the
// sign-in list: disclosure acknowledged plus name and email filled in.
func (r Record) Signable() bool {
	return r.AgreedToDisclosure && r.HasContactInfo()
}

// SplitName splits the full name on the first space. A single-token name
// becomes the first name with an empty last name.
func (r Record) SplitName() (first, last string) {
	name := strings.TrimSpace(r.FullName)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

// ShortID returns the first 8 characters of the record id, used in export
// filenames.
func (r Record) ShortID() string {
	if len(r.ID) > 8 {
		return r.ID[:8]
	}
	return r.ID
}

// Package models defines the records the outreach server reads from and
// writes to the record store.
package models

import "time"

// Contact is an event registrant.
type Contact struct {
	ID                  string    `json:"id"`
	NationalID          string    `json:"national_id"`
	FullName            string    `json:"full_name"`
	Phone               string    `json:"phone"`
	Email               string    `json:"email,omitempty"`
	Locality            string    `json:"locality"`
	ReferredByContactID string    `json:"referred_by_contact_id,omitempty"`
	ReferredByName      string    `json:"referred_by_name,omitempty"`
	State               State     `json:"state"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	Origin              Origin    `json:"origin"`
	LastManagedAt       time.Time `json:"last_managed_at,omitempty"`
}

// ContactMatch is an autocomplete hit.
type ContactMatch struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

// HistoricalRecord is a row of the externally sourced historical base. The
// national id doubles as its identity.
type HistoricalRecord struct {
	NationalID           string    `json:"national_id"`
	FullName             string    `json:"full_name"`
	Phone                string    `json:"phone"`
	NUIP                 string    `json:"nuip,omitempty"`
	Department           string    `json:"department,omitempty"`
	Municipality         string    `json:"municipality"`
	PollingPlace         string    `json:"polling_place"`
	Address              string    `json:"address,omitempty"`
	Table                string    `json:"table"`
	CallOutcome          string    `json:"call_outcome,omitempty"`
	MessagingOutcome     string    `json:"messaging_outcome,omitempty"`
	Note                 string    `json:"note,omitempty"`
	ManagedByDisplayName string    `json:"managed_by,omitempty"`
	LastManagedAt        time.Time `json:"last_managed_at,omitempty"`
}

// Classification is the binary backlog split of the historical base.
type Classification string

const (
	Pending  Classification = "pending"
	Attended Classification = "attended"
)

// Classify is pending iff neither channel has an outcome.
func (r HistoricalRecord) Classify() Classification {
	if r.CallOutcome == "" && r.MessagingOutcome == "" {
		return Pending
	}
	return Attended
}

// CallState reads the call column as a state, NUEVO when empty.
func (r HistoricalRecord) CallState() State {
	return StateOrNew(r.CallOutcome)
}

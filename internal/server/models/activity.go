package models

import "time"

// Activity is an append-only ledger entry.
type Activity struct {
	ID             string       `json:"id"`
	Timestamp      time.Time    `json:"timestamp"`
	ContactID      string       `json:"contact_id,omitempty"`
	NationalID     string       `json:"national_id,omitempty"`
	ActorUserID    string       `json:"actor_user_id"`
	Kind           ActivityKind `json:"kind"`
	Detail         string       `json:"detail"`
	NewState       State        `json:"new_state,omitempty"`
	PersonResponse string       `json:"person_response,omitempty"`
	Note           string       `json:"note,omitempty"`
}

// TimelinePoint is the number of ledger entries on one date.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

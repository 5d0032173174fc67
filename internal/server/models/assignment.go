package models

import "time"

// Assignment hands a contact, addressed by id and/or national id, to a user.
type Assignment struct {
	ID               string    `json:"id"`
	ContactID        string    `json:"contact_id,omitempty"`
	NationalID       string    `json:"national_id,omitempty"`
	AssigneeUserID   string    `json:"assignee_user_id"`
	AssignedByUserID string    `json:"assigned_by_user_id"`
	AssignedAt       time.Time `json:"assigned_at"`
	Active           bool      `json:"active"`
}

// Covers reports whether a is an active assignment of userID referencing the
// contact by either key.
func (a Assignment) Covers(userID, contactID, nationalID string) bool {
	if !a.Active || a.AssigneeUserID != userID {
		return false
	}
	if contactID != "" && a.ContactID == contactID {
		return true
	}
	return nationalID != "" && a.NationalID == nationalID
}

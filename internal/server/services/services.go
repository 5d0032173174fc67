// Package services contains the outreach server's business logic: contact
// registration, historical base reads, allocation, the outcome state
// machine, the activity ledger and reporting.
//
// Every operation takes the caller's identity explicitly and scans the
// tables it needs once; lookups and row addresses never outlive the call.
package services

import (
	"time"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/google/uuid"
)

// clock and ids are replaced in tests.
type clock struct {
	now   func() time.Time
	newID func() string
}

func defaultClock() clock {
	return clock{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func requireIdentity(id *models.Identity) error {
	if id == nil || id.UserID == "" {
		return common.ErrUnauthorized
	}
	return nil
}

func requireAdmin(id *models.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return common.Forbiddenf("administrator role required")
	}
	return nil
}

func forbiddenContact(key string) error {
	return common.Forbiddenf("no active assignment for contact %s", key)
}

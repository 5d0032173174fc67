// Package activity is the append-only ledger of outreach events.
package activity

import (
	"context"

	"github.com/dmitrijs2005/gophreach/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, a models.Activity) error
	// List returns every entry in the order it was appended.
	List(ctx context.Context) ([]models.Activity, error)
}

package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRepository_AppendList(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(store.NewMemoryStore())
	at := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)

	first := models.Activity{
		ID: "l1", Timestamp: at, ContactID: "c1", NationalID: "123", ActorUserID: "u1",
		Kind: models.KindCall, Detail: "Llamada: NO_RESPONDE", NewState: models.StateNoAnswer,
		PersonResponse: "colgó", Note: "reintentar",
	}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, models.Activity{ID: "l2", Timestamp: at.Add(time.Minute), ActorUserID: "u1", Kind: models.KindLogin}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, models.KindLogin, got[1].Kind)
	assert.Equal(t, models.State(""), got[1].NewState)
}

type failingStore struct{ store.Store }

func (failingStore) Scan(context.Context, store.Table) ([]store.Row, error) {
	return nil, common.StoreError("scan", errors.New("quota exceeded"))
}

func TestStoreRepository_ListPropagatesStoreErrors(t *testing.T) {
	_, err := NewStoreRepository(failingStore{}).List(context.Background())
	assert.ErrorIs(t, err, common.ErrStore)
}

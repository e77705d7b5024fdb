package repo

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/inventory-search/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryProductStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryProductStore()

	require.NoError(t, s.Put(ctx, "p1", models.RawRecord{"name": models.S("Hammer"), "price": models.N("12")}))
	require.NoError(t, s.Put(ctx, "p2", models.RawRecord{"name": models.S("Saw"), "price": models.N("30")}))
	require.NoError(t, s.Put(ctx, "p3", models.RawRecord{"name": models.S("Sander"), "price": models.N("90")}))
	assert.Equal(t, 3, s.Len())

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Hammer", all[0]["name"].Text)
	assert.Equal(t, "Sander", all[2]["name"].Text)

	filtered, err := s.FetchFiltered(ctx, Filter{Conditions: []Condition{
		{Attribute: "name", Op: OpContains, Text: "S"},
		priceCond(OpLTE, "50"),
	}})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Saw", filtered[0]["name"].Text)
}

func TestInMemoryProductStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryProductStore()

	require.NoError(t, s.Put(ctx, "p1", models.RawRecord{"name": models.S("Old")}))
	require.NoError(t, s.Put(ctx, "p2", models.RawRecord{"name": models.S("Other")}))
	require.NoError(t, s.Put(ctx, "p1", models.RawRecord{"name": models.S("New")}))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "New", all[0]["name"].Text)

	s.Clear()
	assert.Zero(t, s.Len())
}

func TestInMemoryProductStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryProductStore()
	require.NoError(t, s.Put(ctx, "p1", models.RawRecord{"name": models.S("Hammer")}))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	all[0]["name"] = models.S("Changed")

	again, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hammer", again[0]["name"].Text)
}

func TestInMemoryProductStore_Errors(t *testing.T) {
	s := NewInMemoryProductStore()

	_, err := s.FetchFiltered(context.Background(), Filter{})
	assert.ErrorIs(t, err, ErrEmptyFilter)
	assert.ErrorIs(t, err, ErrStoreFailure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrStoreFailure)
}

package database

import (
	"context"
	"testing"
	"time"

	"storefront-service/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pizza = models.MenuItem{ID: 1, Name: "Margherita Pizza", Price: decimal.RequireFromString("12.99")}

func TestMemoryCartRepository_SaveAndGet(t *testing.T) {
	repo := NewMemoryCartRepository(time.Hour)
	ctx := context.Background()

	missing, err := repo.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	cart := models.NewCart("s1")
	cart.Add(pizza)
	require.NoError(t, repo.SaveCart(ctx, cart))

	got, err := repo.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Len())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestMemoryCartRepository_DoesNotAliasCallerState(t *testing.T) {
	repo := NewMemoryCartRepository(time.Hour)
	ctx := context.Background()

	cart := models.NewCart("s1")
	cart.Add(pizza)
	require.NoError(t, repo.SaveCart(ctx, cart))

	cart.Add(pizza)
	got, _ := repo.GetCart(ctx, "s1")
	entry, _ := got.Entry(pizza.ID)
	assert.Equal(t, 1, entry.Quantity)

	got.Remove(pizza.ID)
	again, _ := repo.GetCart(ctx, "s1")
	assert.Equal(t, 1, again.Len())
}

func TestMemoryCartRepository_Expiry(t *testing.T) {
	repo := NewMemoryCartRepository(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.SaveCart(ctx, models.NewCart("s1")))
	require.NoError(t, repo.SaveCart(ctx, models.NewCart("s2")))

	now = now.Add(30 * time.Second)
	require.NoError(t, repo.SaveCart(ctx, models.NewCart("s2")))

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, repo.Cleanup())

	gone, _ := repo.GetCart(ctx, "s1")
	assert.Nil(t, gone)
	kept, _ := repo.GetCart(ctx, "s2")
	assert.NotNil(t, kept)

	now = now.Add(time.Minute)
	expired, _ := repo.GetCart(ctx, "s2")
	assert.Nil(t, expired)
}

func TestMemoryCartRepository_Delete(t *testing.T) {
	repo := NewMemoryCartRepository(time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.SaveCart(ctx, models.NewCart("s1")))
	require.NoError(t, repo.DeleteCart(ctx, "s1"))
	require.NoError(t, repo.DeleteCart(ctx, "unknown"))

	got, _ := repo.GetCart(ctx, "s1")
	assert.Nil(t, got)
}

package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamio/backend/internal/repo"
)

func TestPlaceRepo_ListByDestination(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewPlaceRepo(tx)
	ctx := context.Background()

	destID := seedDestination(t, tx, "Bali")
	otherID := seedDestination(t, tx, "Zanzibar")
	seedPlace(t, tx, destID, "Uluwatu Temple")
	seedPlace(t, tx, destID, "Kuta Beach")
	seedPlace(t, tx, otherID, "Stone Town")

	got, err := r.ListByDestination(ctx, uuid.MustParse(destID))

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by name; the other destination's place never appears.
	assert.Equal(t, "Kuta Beach", got[0].Name)
	assert.Equal(t, "Uluwatu Temple", got[1].Name)
}

func TestPlaceRepo_ListByDestination_Empty(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewPlaceRepo(tx)

	destID := seedDestination(t, tx, "Bali")

	got, err := r.ListByDestination(context.Background(), uuid.MustParse(destID))

	require.NoError(t, err)
	assert.Empty(t, got)
}

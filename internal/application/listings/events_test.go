package listings

import (
	"context"
	"testing"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	svc, db, _ := setupListingsTest(t)
	owner := createUser(t, db, "alice", constants.Landlord)
	stranger := createUser(t, db, "mallory", constants.Agent)
	listing := createListing(t, db, owner, nil, nil)

	price := 1500.0
	_, err := svc.Update(context.Background(), listing.ID, ListingPatch{Price: &price}, sessionFor(owner))
	require.NoError(t, err)
	_, err = svc.DetachImage(context.Background(), listing.ID, "missing.jpg", sessionFor(owner))
	require.NoError(t, err)

	events, err := svc.History(context.Background(), listing.ID, sessionFor(owner))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventUpdated, events[0].EventType)
	require.NotNil(t, events[0].ActorID)
	assert.Equal(t, owner.ID, *events[0].ActorID)
	assert.JSONEq(t, `{"fields":["price"]}`, string(events[0].EventData))

	_, err = svc.History(context.Background(), listing.ID, sessionFor(stranger))
	assert.Equal(t, ErrUnauthorized, err)
	_, err = svc.History(context.Background(), uuid.New(), sessionFor(owner))
	assert.Equal(t, ErrNotFound, err)
}

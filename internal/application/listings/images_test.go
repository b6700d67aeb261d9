package listings

import (
	"context"
	"testing"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"
	"propertyhub-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachImages_AppendsInOrder(t *testing.T) {
	svc, db, fs := setupListingsTest(t)
	owner := createUser(t, db, "alice", constants.Landlord)
	listing := createListing(t, db, owner, nil, domain.ImageList{"old.jpg"})

	urls, err := svc.AttachImages(context.Background(), listing.ID, []ImageFile{
		{Name: "one.jpg", ContentType: "image/jpeg", Data: []byte("1")},
		{Name: "two.jpg", ContentType: "image/jpeg", Data: []byte("2")},
	}, sessionFor(owner))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/one.jpg", "https://cdn.test/two.jpg"}, urls)
	assert.Equal(t, []string{"one.jpg", "two.jpg"}, fs.uploaded)

	var reloaded domain.Listing
	require.NoError(t, db.First(&reloaded, "id = ?", listing.ID).Error)
	assert.Equal(t, domain.ImageList{"old.jpg", "https://cdn.test/one.jpg", "https://cdn.test/two.jpg"}, reloaded.Images)
	assert.Equal(t, []string{domain.EventImagesAdded}, eventTypes(t, db, listing.ID))
}

func TestAttachImages_UploadFailureLeavesListing(t *testing.T) {
	svc, db, fs := setupListingsTest(t)
	fs.failOn = "two.jpg"
	owner := createUser(t, db, "alice", constants.Landlord)
	listing := createListing(t, db, owner, nil, domain.ImageList{"old.jpg"})

	_, err := svc.AttachImages(context.Background(), listing.ID, []ImageFile{
		{Name: "one.jpg", Data: []byte("1")},
		{Name: "two.jpg", Data: []byte("2")},
		{Name: "three.jpg", Data: []byte("3")},
	}, sessionFor(owner))
	require.Error(t, err)
	ae, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindStorageFailed, ae.Kind)
	assert.Equal(t, "two.jpg", ae.Details.(map[string]interface{})["file"])
	assert.Equal(t, []string{"one.jpg"}, fs.uploaded)

	var reloaded domain.Listing
	require.NoError(t, db.First(&reloaded, "id = ?", listing.ID).Error)
	assert.Equal(t, domain.ImageList{"old.jpg"}, reloaded.Images)
	assert.Empty(t, eventTypes(t, db, listing.ID))
}

func TestAttachImages_Guarded(t *testing.T) {
	svc, db, fs := setupListingsTest(t)
	owner := createUser(t, db, "alice", constants.Landlord)
	stranger := createUser(t, db, "mallory", constants.Agent)
	listing := createListing(t, db, owner, nil, nil)
	files := []ImageFile{{Name: "x.jpg", Data: []byte("x")}}

	_, err := svc.AttachImages(context.Background(), listing.ID, files, sessionFor(stranger))
	assert.Equal(t, ErrUnauthorized, err)
	_, err = svc.AttachImages(context.Background(), uuid.New(), files, sessionFor(owner))
	assert.Equal(t, ErrListingNotFound, err)
	_, err = svc.AttachImages(context.Background(), listing.ID, nil, sessionFor(owner))
	assert.Equal(t, ErrNoImages, err)
	assert.Empty(t, fs.uploaded)
}

func TestDetachImage(t *testing.T) {
	svc, db, _ := setupListingsTest(t)
	owner := createUser(t, db, "alice", constants.Landlord)
	listing := createListing(t, db, owner, nil, domain.ImageList{"a.jpg", "b.jpg", "a.jpg"})

	remaining, err := svc.DetachImage(context.Background(), listing.ID, "a.jpg", sessionFor(owner))
	require.NoError(t, err)
	assert.Equal(t, domain.ImageList{"b.jpg", "a.jpg"}, remaining)

	remaining, err = svc.DetachImage(context.Background(), listing.ID, "missing.jpg", sessionFor(owner))
	require.NoError(t, err)
	assert.Equal(t, domain.ImageList{"b.jpg", "a.jpg"}, remaining)

	var reloaded domain.Listing
	require.NoError(t, db.First(&reloaded, "id = ?", listing.ID).Error)
	assert.Equal(t, domain.ImageList{"b.jpg", "a.jpg"}, reloaded.Images)
	assert.Equal(t, []string{domain.EventImageRemoved}, eventTypes(t, db, listing.ID))
}

func TestDetachImage_LegacyStringColumn(t *testing.T) {
	svc, db, _ := setupListingsTest(t)
	owner := createUser(t, db, "alice", constants.Landlord)
	listing := createListing(t, db, owner, nil, nil)
	require.NoError(t, db.Exec(`UPDATE "Listings" SET images = ? WHERE id = ?`, "a.jpg, b.jpg", listing.ID).Error)

	remaining, err := svc.DetachImage(context.Background(), listing.ID, "b.jpg", sessionFor(owner))
	require.NoError(t, err)
	assert.Equal(t, domain.ImageList{"a.jpg"}, remaining)

	var raw string
	require.NoError(t, db.Raw(`SELECT images FROM "Listings" WHERE id = ?`, listing.ID).Scan(&raw).Error)
	assert.Equal(t, `["a.jpg"]`, raw)
}

func TestDetachImage_Guarded(t *testing.T) {
	svc, db, _ := setupListingsTest(t)
	owner := createUser(t, db, "alice", constants.Landlord)
	renter := createUser(t, db, "carol", constants.Renter)
	listing := createListing(t, db, owner, nil, domain.ImageList{"a.jpg"})

	_, err := svc.DetachImage(context.Background(), listing.ID, "a.jpg", sessionFor(renter))
	assert.Equal(t, ErrUnauthorized, err)
	_, err = svc.DetachImage(context.Background(), uuid.New(), "a.jpg", sessionFor(owner))
	assert.Equal(t, ErrListingNotFound, err)
}

package favorites

import (
	"context"
	"testing"
	"time"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupFavoritesTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db}, db
}

func TestAddRemove(t *testing.T) {
	svc, db := setupFavoritesTest(t)
	owner := domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: "LANDLORD"}
	require.NoError(t, db.Create(&owner).Error)
	listing := domain.Listing{Title: "Flat", OwnerID: owner.ID}
	require.NoError(t, db.Create(&listing).Error)
	sess := &domain.Session{UserID: uuid.New(), Role: "RENTER"}
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, sess, listing.ID))
	require.NoError(t, svc.Add(ctx, sess, listing.ID))

	var n int64
	db.Model(&domain.Favorite{}).Where("user_id = ?", sess.UserID).Count(&n)
	assert.Equal(t, int64(1), n)

	favs, err := svc.ListMine(ctx, sess)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.NotNil(t, favs[0].Listing)
	assert.Equal(t, "Flat", favs[0].Listing.Title)
	require.NotNil(t, favs[0].Listing.Owner)
	assert.Equal(t, "Alice", favs[0].Listing.Owner.Name)

	require.NoError(t, svc.Remove(ctx, sess, listing.ID))
	db.Model(&domain.Favorite{}).Where("user_id = ?", sess.UserID).Count(&n)
	assert.Equal(t, int64(0), n)
}

func TestListMine_NewestFirst(t *testing.T) {
	svc, db := setupFavoritesTest(t)
	sess := &domain.Session{UserID: uuid.New(), Role: "RENTER"}
	owner := domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: "LANDLORD"}
	require.NoError(t, db.Create(&owner).Error)
	l1 := domain.Listing{Title: "One", OwnerID: owner.ID}
	l2 := domain.Listing{Title: "Two", OwnerID: owner.ID}
	require.NoError(t, db.Create(&l1).Error)
	require.NoError(t, db.Create(&l2).Error)
	older := domain.Favorite{UserID: sess.UserID, ListingID: l1.ID, CreatedAt: time.Now().Add(-time.Hour)}
	newer := domain.Favorite{UserID: sess.UserID, ListingID: l2.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	favs, err := svc.ListMine(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, newer.ID, favs[0].ID)
}

func TestRequiresSessionAndListing(t *testing.T) {
	svc, _ := setupFavoritesTest(t)
	ctx := context.Background()
	assert.Equal(t, ErrUnauthorized, svc.Add(ctx, nil, uuid.New()))
	assert.Equal(t, ErrUnauthorized, svc.Remove(ctx, nil, uuid.New()))
	_, err := svc.ListMine(ctx, nil)
	assert.Equal(t, ErrUnauthorized, err)

	assert.Equal(t, ErrListingNotFound, svc.Add(ctx, &domain.Session{UserID: uuid.New()}, uuid.New()))
}

package uploads

import (
	"context"
	"testing"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct{ lastName string }

func (f *fakeStorage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return "https://cdn.test/" + name, nil
}

func (f *fakeStorage) SignUpload(ctx context.Context, name string) (*storage.SignedUpload, error) {
	f.lastName = name
	return &storage.SignedUpload{UploadURL: "https://cdn.test/put/" + name, PublicURL: "https://cdn.test/" + name, Path: name}, nil
}

func TestGetSignedUploadURL(t *testing.T) {
	fs := &fakeStorage{}
	svc := &Service{Storage: fs}
	agent := &domain.Session{UserID: uuid.New(), Role: "AGENT"}

	res, err := svc.GetSignedUploadURL(context.Background(), agent, " ../front.JPG ")
	require.NoError(t, err)
	assert.Equal(t, "front.JPG", fs.lastName)
	assert.Equal(t, "https://cdn.test/put/front.JPG", res.UploadURL)
}

func TestGetSignedUploadURL_Rejections(t *testing.T) {
	svc := &Service{Storage: &fakeStorage{}}
	agent := &domain.Session{UserID: uuid.New(), Role: "AGENT"}
	renter := &domain.Session{UserID: uuid.New(), Role: "RENTER"}

	_, err := svc.GetSignedUploadURL(context.Background(), renter, "a.png")
	assert.Equal(t, ErrUnauthorized, err)
	_, err = svc.GetSignedUploadURL(context.Background(), nil, "a.png")
	assert.Equal(t, ErrUnauthorized, err)
	_, err = svc.GetSignedUploadURL(context.Background(), agent, "")
	assert.Equal(t, ErrFileNameRequired, err)
	_, err = svc.GetSignedUploadURL(context.Background(), agent, "script.exe")
	assert.Equal(t, ErrUnsupportedType, err)
}

func TestAllowedImage(t *testing.T) {
	assert.True(t, AllowedImage("x.WEBP"))
	assert.False(t, AllowedImage("x.pdf"))
}

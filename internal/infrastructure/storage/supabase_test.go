package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"propertyhub-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseStorage_Upload(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(200)
		_, _ = w.Write([]byte(`{"Key":"ok"}`))
	}))
	defer srv.Close()

	s := &SupabaseStorage{BaseURL: srv.URL + "/", SecretKey: "service", Bucket: "listing-images"}
	url, err := s.Upload(context.Background(), "Front.JPG", "image/jpeg", []byte("bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/storage/v1/object/listing-images/listings/"))
	assert.True(t, strings.HasSuffix(gotPath, ".jpg"))
	assert.Equal(t, "Bearer service", gotAuth)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, "bytes", gotBody)
	assert.True(t, strings.HasPrefix(url, srv.URL+"/storage/v1/object/public/listing-images/listings/"))
}

func TestSupabaseStorage_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		_, _ = w.Write([]byte("bucket gone"))
	}))
	defer srv.Close()

	s := &SupabaseStorage{BaseURL: srv.URL, SecretKey: "service", Bucket: "b"}
	_, err := s.Upload(context.Background(), "a.png", "image/png", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSupabaseStorage_SignUpload_RelativeURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/storage/v1/object/upload/sign/b/listings/"))
		_, _ = w.Write([]byte(`{"url":"/object/upload/sign/b/listings/x.png?token=abc"}`))
	}))
	defer srv.Close()

	s := &SupabaseStorage{BaseURL: srv.URL, SecretKey: "service", Bucket: "b"}
	res, err := s.SignUpload(context.Background(), "x.png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/upload/sign/b/listings/x.png?token=abc", res.UploadURL)
	assert.Contains(t, res.PublicURL, "/storage/v1/object/public/b/listings/")
	assert.True(t, strings.HasPrefix(res.Path, "listings/"))
}

func TestSupabaseStorage_MissingConfig(t *testing.T) {
	s := &SupabaseStorage{}
	_, err := s.Upload(context.Background(), "a.png", "", nil)
	assert.EqualError(t, err, "supabase: SUPABASE_URL is not set")

	s.BaseURL = "http://x"
	_, err = s.SignUpload(context.Background(), "a.png")
	assert.EqualError(t, err, "supabase: SUPABASE_SECRET_KEY is not set")
}

func TestObjectKey(t *testing.T) {
	k1, k2 := ObjectKey("a.PNG"), ObjectKey("a.PNG")
	assert.NotEqual(t, k1, k2)
	assert.True(t, strings.HasPrefix(k1, "listings/"))
	assert.True(t, strings.HasSuffix(k1, ".png"))
}

func TestNew_Drivers(t *testing.T) {
	s, err := New(context.Background(), &config.Config{StorageDriver: "supabase", SupabaseURL: "http://x", SupabaseBucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStorage{}, s)

	_, err = New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.EqualError(t, err, `storage: unknown STORAGE_DRIVER "ftp"`)

	_, err = New(context.Background(), &config.Config{StorageDriver: "s3"})
	assert.EqualError(t, err, "s3: S3_ENDPOINT is not set")
}

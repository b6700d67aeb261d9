package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseStorage talks to the Supabase Storage HTTP API.
type SupabaseStorage struct {
	BaseURL   string
	SecretKey string // service_role key
	Bucket    string
	Client    *http.Client
}

type supabaseSignedUploadResponse struct {
	SignedURL      string `json:"signedUrl"`
	SignedURLSnake string `json:"signed_url"`
	URL            string `json:"url"` // relative path returned by upload/sign API
}

func (s *SupabaseStorage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	base, err := s.base()
	if err != nil {
		return "", err
	}
	path := ObjectKey(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/storage/v1/object/%s/%s", base, s.Bucket, path), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.authorize(req)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	if _, err := s.do(req); err != nil {
		return "", err
	}
	return s.publicURL(base, path), nil
}

func (s *SupabaseStorage) SignUpload(ctx context.Context, name string) (*SignedUpload, error) {
	base, err := s.base()
	if err != nil {
		return nil, err
	}
	path := ObjectKey(name)
	bodyBytes, _ := json.Marshal(map[string]interface{}{
		"expiresIn": int(signedUploadTTL.Seconds()),
		"upsert":    false,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/storage/v1/object/upload/sign/%s/%s", base, s.Bucket, path), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	respBody, err := s.do(req)
	if err != nil {
		return nil, err
	}
	var data supabaseSignedUploadResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("supabase response decode: %w", err)
	}
	var signed string
	switch {
	case data.SignedURL != "":
		signed = data.SignedURL
	case data.SignedURLSnake != "":
		signed = data.SignedURLSnake
	case data.URL != "":
		u := data.URL
		if !strings.HasPrefix(u, "/") {
			u = "/" + u
		}
		// relative URLs are rooted at the storage API
		if !strings.HasPrefix(u, "/storage/v1") {
			u = "/storage/v1" + u
		}
		signed = base + u
	default:
		return nil, fmt.Errorf("supabase returned no signed URL, body: %s", string(respBody))
	}
	return &SignedUpload{UploadURL: signed, PublicURL: s.publicURL(base, path), Path: path}, nil
}

func (s *SupabaseStorage) base() (string, error) {
	if s.BaseURL == "" {
		return "", fmt.Errorf("supabase: SUPABASE_URL is not set")
	}
	if s.SecretKey == "" {
		return "", fmt.Errorf("supabase: SUPABASE_SECRET_KEY is not set")
	}
	return strings.TrimRight(s.BaseURL, "/"), nil
}

// authorize sets both apikey and bearer headers, as supabase-js does.
func (s *SupabaseStorage) authorize(req *http.Request) {
	req.Header.Set("apikey", s.SecretKey)
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
}

func (s *SupabaseStorage) do(req *http.Request) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := string(respBody)
		// Invalid Compact JWS means the anon key was sent instead of service_role
		if strings.Contains(bodyStr, "Invalid Compact JWS") {
			return nil, fmt.Errorf("supabase storage requires the service_role key: set SUPABASE_SECRET_KEY (raw body: %s)", bodyStr)
		}
		return nil, fmt.Errorf("supabase error: status %d body: %s", resp.StatusCode, bodyStr)
	}
	return respBody, nil
}

func (s *SupabaseStorage) publicURL(base, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, s.Bucket, path)
}

package adafruit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nerrad567/motorbridge/internal/infrastructure/config"
)

func testAdafruitConfig(url string) config.AdafruitConfig {
	return config.AdafruitConfig{
		Username: "testuser",
		Key:      "aio_testkey",
		APIURL:   url,
		Timeout:  2,
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.AdafruitConfig
		wantErr bool
	}{
		{
			name:    "valid",
			cfg:     testAdafruitConfig("https://io.adafruit.com"),
			wantErr: false,
		},
		{
			name: "missing url",
			cfg: config.AdafruitConfig{
				Username: "testuser",
				Key:      "aio_testkey",
			},
			wantErr: true,
		},
		{
			name: "missing key",
			cfg: config.AdafruitConfig{
				Username: "testuser",
				APIURL:   "https://io.adafruit.com",
			},
			wantErr: true,
		},
		{
			name: "missing username",
			cfg: config.AdafruitConfig{
				Key:    "aio_testkey",
				APIURL: "https://io.adafruit.com",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	client, err := New(testAdafruitConfig("https://io.adafruit.com/"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.baseURL != "https://io.adafruit.com" {
		t.Errorf("baseURL = %q, want trailing slash removed", client.baseURL)
	}
}

func TestLastData(t *testing.T) {
	var gotPath, gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-AIO-Key")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":         "0FAKEDATUM123",
			"value":      `{"temp":21.5}`,
			"feed_id":    1234567,
			"feed_key":   "esp32-status",
			"created_at": "2026-03-01T16:20:31Z",
		})
	}))
	defer srv.Close()

	client, err := New(testAdafruitConfig(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	datum, err := client.LastData(context.Background(), "esp32-status")
	if err != nil {
		t.Fatalf("LastData() error = %v", err)
	}

	if gotPath != "/api/v2/testuser/feeds/esp32-status/data/last" {
		t.Errorf("request path = %q, want data/last path", gotPath)
	}

	if gotKey != "aio_testkey" {
		t.Errorf("X-AIO-Key = %q, want %q", gotKey, "aio_testkey")
	}

	if datum.ID != "0FAKEDATUM123" {
		t.Errorf("datum.ID = %q, want %q", datum.ID, "0FAKEDATUM123")
	}

	if datum.Value != `{"temp":21.5}` {
		t.Errorf("datum.Value = %q, want raw JSON string", datum.Value)
	}

	if datum.FeedKey != "esp32-status" {
		t.Errorf("datum.FeedKey = %q, want %q", datum.FeedKey, "esp32-status")
	}

	want := time.Date(2026, 3, 1, 16, 20, 31, 0, time.UTC)
	if !datum.CreatedAt.Equal(want) {
		t.Errorf("datum.CreatedAt = %v, want %v", datum.CreatedAt, want)
	}
}

func TestLastData_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"not found - no data found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := New(testAdafruitConfig(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.LastData(context.Background(), "esp32-status")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("LastData() error = %v, want ErrNoData", err)
	}
}

func TestLastData_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := New(testAdafruitConfig(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.LastData(context.Background(), "esp32-status")
	if !errors.Is(err, ErrRemoteAPI) {
		t.Fatalf("LastData() error = %v, want ErrRemoteAPI", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("LastData() error = %v, want *APIError", err)
	}

	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}

	if apiErr.Body == "" {
		t.Error("APIError.Body should carry the upstream message")
	}
}

func TestLastData_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client, err := New(testAdafruitConfig(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.LastData(context.Background(), "esp32-status")
	if !errors.Is(err, ErrRemoteAPI) {
		t.Errorf("LastData() error = %v, want ErrRemoteAPI", err)
	}
}

func TestLastData_EmptyFeedKey(t *testing.T) {
	client, err := New(testAdafruitConfig("https://io.adafruit.com"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := client.LastData(context.Background(), ""); err == nil {
		t.Error("LastData() expected error for empty feed key, got nil")
	}
}

func TestLastData_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	client, err := New(testAdafruitConfig(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = client.LastData(ctx, "esp32-status")
	if err == nil {
		t.Error("LastData() expected error for cancelled context, got nil")
	}
}

func TestCreateData(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":         "0NEWDATUM456",
			"value":      "42",
			"feed_key":   "motor-control",
			"created_at": "2026-03-01T16:25:00Z",
		})
	}))
	defer srv.Close()

	client, err := New(testAdafruitConfig(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	datum, err := client.CreateData(context.Background(), "motor-control", "42")
	if err != nil {
		t.Fatalf("CreateData() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}

	if gotPath != "/api/v2/testuser/feeds/motor-control/data" {
		t.Errorf("request path = %q, want data path", gotPath)
	}

	if gotBody["value"] != "42" {
		t.Errorf("posted value = %v, want %q", gotBody["value"], "42")
	}

	if datum.ID != "0NEWDATUM456" {
		t.Errorf("datum.ID = %q, want %q", datum.ID, "0NEWDATUM456")
	}
}

func TestCreateData_EmptyFeedKey(t *testing.T) {
	client, err := New(testAdafruitConfig("https://io.adafruit.com"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := client.CreateData(context.Background(), "", "1"); err == nil {
		t.Error("CreateData() expected error for empty feed key, got nil")
	}
}

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perrors "github.com/lcgerke/gamecache-secrets/internal/errors"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		repo string
		want string
	}{
		{"owner/name", "alice/games", "github"},
		{"github https url", "https://github.com/alice/games.git", "github"},
		{"github ssh url", "git@github.com:alice/games.git", "github"},
		{"gitlab https url", "https://gitlab.com/alice/games.git", "unknown"},
		{"gitlab ssh url", "git@gitlab.com:alice/games.git", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectPlatform(tt.repo); got != tt.want {
				t.Errorf("detectPlatform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		token   string
		wantErr bool
	}{
		{"valid repository", "alice/games", "gho_test", false},
		{"valid url", "https://github.com/alice/games.git", "gho_test", false},
		{"unsupported platform", "https://gitlab.com/alice/games.git", "gho_test", true},
		{"malformed repository", "alice", "gho_test", true},
		{"empty token", "alice/games", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.repo, tt.token, ClientOptions{Timeout: time.Second})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if got := client.(*githubClientWrapper).FullName(); got != "alice/games" {
					t.Errorf("NewClient() repository = %s, want alice/games", got)
				}
			}
		})
	}
}

// newStubClient returns a client talking to a stub GitHub API
func newStubClient(t *testing.T, mux *http.ServeMux, metrics *MetricsCollector) Platform {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient("alice/games", "gho_test", ClientOptions{
		APIURL:  server.URL,
		Timeout: 5 * time.Second,
		Metrics: metrics,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestGetPublicKey(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/alice/games/actions/secrets/public-key", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer gho_test" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if got := r.Header.Get("Accept"); !strings.Contains(got, "application/vnd.github.v3+json") {
			t.Errorf("Accept = %q, want versioned media type", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"key_id": "568250167242549743", "key": "dGVzdA=="})
	})

	metrics := NewMetricsCollector()
	key, err := newStubClient(t, mux, metrics).GetPublicKey(context.Background())
	if err != nil {
		t.Fatalf("GetPublicKey() error = %v", err)
	}
	if key.KeyID != "568250167242549743" || key.Key != "dGVzdA==" {
		t.Errorf("GetPublicKey() = %+v", key)
	}
	if metrics.TotalCalls != 1 {
		t.Errorf("metrics.TotalCalls = %d, want 1", metrics.TotalCalls)
	}
}

func TestGetPublicKey_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message":"Not Found"}`))
			},
			check: func(t *testing.T, err error) {
				if !IsNotFound(err) {
					t.Errorf("want not found classification, got %v", err)
				}
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Bad credentials"}`))
			},
			check: func(t *testing.T, err error) {
				if !IsAuthError(err) {
					t.Errorf("want auth classification, got %v", err)
				}
			},
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "empty key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/alice/games/actions/secrets/public-key", tt.handler)

			_, err := newStubClient(t, mux, nil).GetPublicKey(context.Background())
			if !perrors.Is(err, perrors.KindRemoteKeyFetch) {
				t.Fatalf("GetPublicKey() error = %v, want RemoteKeyFetch", err)
			}
			if perrors.IsFatal(err) {
				t.Error("RemoteKeyFetch should not be fatal")
			}
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestPutSecret(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"created", http.StatusCreated},
		{"updated", http.StatusNoContent},
		{"accepted", http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			mux := http.NewServeMux()
			mux.HandleFunc("/repos/alice/games/actions/secrets/GAMECACHE_GITHUB_TOKEN", func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("Expected PUT request, got %s", r.Method)
				}
				json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
			})

			err := newStubClient(t, mux, nil).PutSecret(context.Background(), &EncryptedSecret{
				Name:           "GAMECACHE_GITHUB_TOKEN",
				KeyID:          "key-1",
				EncryptedValue: "c2VhbGVk",
			})
			if err != nil {
				t.Fatalf("PutSecret() error = %v", err)
			}
			if got["key_id"] != "key-1" || got["encrypted_value"] != "c2VhbGVk" {
				t.Errorf("request body = %v", got)
			}
		})
	}
}

func TestPutSecret_HTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/alice/games/actions/secrets/GAMECACHE_GITHUB_TOKEN", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation Failed","errors":[{"resource":"Secret","field":"encrypted_value","code":"invalid"}]}`))
	})

	err := newStubClient(t, mux, nil).PutSecret(context.Background(), &EncryptedSecret{
		Name: "GAMECACHE_GITHUB_TOKEN", KeyID: "key-1", EncryptedValue: "x",
	})

	var httpErr *UploadHTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("PutSecret() error = %v, want UploadHTTPError", err)
	}
	if httpErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	if httpErr.GitHubMessage != "Validation Failed" {
		t.Errorf("GitHubMessage = %q", httpErr.GitHubMessage)
	}
	if len(httpErr.ValidationErrors) != 1 || !strings.Contains(httpErr.ValidationErrors[0], "encrypted_value") {
		t.Errorf("ValidationErrors = %v", httpErr.ValidationErrors)
	}
}

func TestPutSecret_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient("alice/games", "gho_test", ClientOptions{APIURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	err = client.PutSecret(context.Background(), &EncryptedSecret{Name: "MYBGG_GITHUB_TOKEN", KeyID: "k", EncryptedValue: "v"})
	if !perrors.Is(err, perrors.KindUploadTransport) {
		t.Errorf("PutSecret() error = %v, want UploadTransport", err)
	}
}

func TestAuthenticatedUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"login": "alice"})
	})

	login, err := newStubClient(t, mux, nil).AuthenticatedUser(context.Background())
	if err != nil {
		t.Fatalf("AuthenticatedUser() error = %v", err)
	}
	if login != "alice" {
		t.Errorf("AuthenticatedUser() = %q, want alice", login)
	}
}

package gateway

import (
	"net/http"
	"testing"
	"time"
)

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	if got := pickHTTPClient(custom); got != custom {
		t.Fatalf("expected custom client to be returned")
	}
}

func TestPickHTTPClientUsesDefaultTimeout(t *testing.T) {
	client := pickHTTPClient(nil)
	if client.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultHTTPTimeout, client.Timeout)
	}
}

func TestNewFromEnvBaseURLPrecedence(t *testing.T) {
	cases := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{name: "default", want: "Backend (http://localhost:3000/api)"},
		{name: "env", env: "https://api.example.com/api/", want: "Backend (https://api.example.com/api)"},
		{name: "flag wins", flag: "http://127.0.0.1:9000", env: "https://api.example.com", want: "Backend (http://127.0.0.1:9000)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(baseURLEnvVar, tc.env)
			client, err := NewFromEnv(Config{BaseURL: tc.flag})
			if err != nil {
				t.Fatalf("NewFromEnv: %v", err)
			}
			if got := client.Name(); got != tc.want {
				t.Fatalf("name mismatch: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNewFromEnvRejectsInvalidURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com", "localhost:3000", "http://"} {
		if _, err := NewFromEnv(Config{BaseURL: raw}); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

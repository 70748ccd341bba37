package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"no keys passes through", nil, "/v1/amenities", "", http.StatusOK},
		{"blank keys pass through", []string{"", ""}, "/v1/amenities", "", http.StatusOK},
		{"missing header", []string{"secret"}, "/v1/amenities", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "/v1/amenities", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"bare prefix", []string{"secret"}, "/v1/amenities", "Bearer ", http.StatusUnauthorized},
		{"wrong token", []string{"secret"}, "/v1/amenities", "Bearer wrong-key", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, "/v1/amenities", "Bearer secret", http.StatusOK},
		{"scheme is case-insensitive", []string{"secret"}, "/v1/amenities", "bearer secret", http.StatusOK},
		{"second of several keys", []string{"key1", "key2"}, "/v1/locations/search", "Bearer key2", http.StatusOK},
		{"health exempt", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics exempt", []string{"secret"}, "/metrics", "", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tc.keys)(okHandler())

			req := httptest.NewRequest(http.MethodGet, tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("got %d, want %d", rr.Code, tc.want)
			}
			if tc.want != http.StatusUnauthorized {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorCodeUnauthorized)
			}
		})
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "baldguard/internal/errors"
)

func newTestVerifier(ts *httptest.Server) *GoogleVerifier {
	return &GoogleVerifier{
		httpClient:  ts.Client(),
		userinfoURL: ts.URL,
	}
}

func TestGoogleVerifier_Verify_Userinfo(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		expectedError error
	}{
		{
			name: "valid token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"sub":"google-123","email":"test@example.com","name":"Test User","picture":"https://example.com/p.png"}`))
			},
		},
		{
			name: "provider rejects token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			expectedError: apperrors.ErrGoogleTokenInvalid,
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			expectedError: apperrors.ErrGoogleTokenInvalid,
		},
		{
			name: "payload missing email",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"sub":"google-123","name":"Test User"}`))
			},
			expectedError: apperrors.ErrGoogleTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			verifier := newTestVerifier(ts)
			claims, err := verifier.Verify(context.Background(), "good-token", "")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "google-123", claims.Subject)
			assert.Equal(t, "test@example.com", claims.Email)
			assert.Equal(t, "Test User", claims.Name)
			assert.Equal(t, "https://example.com/p.png", claims.Picture)
		})
	}
}

func TestGoogleVerifier_Verify_ProviderUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	verifier := newTestVerifier(ts)
	ts.Close()

	_, err := verifier.Verify(context.Background(), "any-token", "")
	assert.ErrorIs(t, err, apperrors.ErrGoogleTokenInvalid)
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func googleProviderFor(srv *httptest.Server, clientID string) *GoogleIdentityProvider {
	p := NewGoogleIdentityProvider(clientID)
	p.endpoint = srv.URL
	p.httpClient = srv.Client()
	return p
}

func TestGoogleVerify_ValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.URL.Query().Get("id_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"goog-1","aud":"client-1","email":"a@b.co","name":"A","picture":"https://img.example/a.png"}`))
	}))
	defer srv.Close()

	claims, err := googleProviderFor(srv, "client-1").Verify(context.Background(), "tok-1")
	assert.NoError(t, err)
	assert.Equal(t, "goog-1", claims.Subject)
	assert.Equal(t, "a@b.co", claims.Email)
}

func TestGoogleVerify_RejectedByProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := googleProviderFor(srv, "").Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestGoogleVerify_WrongAudience(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"goog-1","aud":"someone-else","email":"a@b.co"}`))
	}))
	defer srv.Close()

	_, err := googleProviderFor(srv, "client-1").Verify(context.Background(), "tok-1")
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

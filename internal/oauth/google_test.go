package oauth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestServer(t *testing.T, userInfo string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userInfo))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srv *httptest.Server) *GoogleProvider {
	return NewProvider(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3000/auth/google/redirect",
		Scopes:       []string{"email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, srv.URL+"/userinfo")
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := newTestServer(t, `{"sub":"g-123","email":"ann@example.com","given_name":"Ann","family_name":"Lee"}`)
	provider := newTestProvider(srv)

	profile, err := provider.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, &Profile{ID: "g-123", Email: "ann@example.com", GivenName: "Ann", FamilyName: "Lee"}, profile)

	_, err = provider.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestGoogleProvider_ExchangeRequiresEmail(t *testing.T) {
	srv := newTestServer(t, `{"sub":"g-123"}`)
	_, err := newTestProvider(srv).Exchange(context.Background(), "good-code")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no email")
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	provider := NewGoogleProvider("client", "secret", "http://localhost:3000/auth/google/redirect")

	u, err := url.Parse(provider.AuthCodeURL("state-1"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "email profile", q.Get("scope"))
	assert.Equal(t, "code", q.Get("response_type"))
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	require.NoError(t, err)

	decoded, err := base64.URLEncoding.DecodeString(state)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)

	other, err := GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

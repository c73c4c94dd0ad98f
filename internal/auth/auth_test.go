package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ashutosh2ingh/AshMart/internal/api"
	"github.com/Ashutosh2ingh/AshMart/internal/store"
)

// memStore is an in-memory stand-in for the SQLite credential store.
type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) GetCredential(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", store.ErrCredentialNotFound
	}
	return value, nil
}

func (m *memStore) SetCredential(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memStore) RemoveCredential(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func TestTokenSource(t *testing.T) {
	tokens := NewTokenSource(newMemStore())
	ctx := context.Background()

	_, err := tokens.Token(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)

	require.NoError(t, tokens.SetToken(ctx, "abc"))
	token, err := tokens.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, tokens.ClearToken(ctx))
	_, err = tokens.Token(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func newVerifierFixture(t *testing.T, handler http.HandlerFunc) (*Verifier, *TokenSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := NewTokenSource(newMemStore())
	require.NoError(t, tokens.SetToken(context.Background(), "abc"))
	client := api.New(srv.URL, tokens, zap.NewNop())
	return NewVerifier(client, tokens, zap.NewNop()), tokens, srv
}

func TestVerifyToken_Valid(t *testing.T) {
	verifier, tokens, _ := newVerifierFixture(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/verify-token/", req.URL.Path)
		assert.Equal(t, "Token abc", req.Header.Get("Authorization"))
		w.Write([]byte(`{"message": "Token Valid"}`))
	})

	valid, err := verifier.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.True(t, valid)

	// The credential survives a successful check.
	_, err = tokens.Token(context.Background())
	assert.NoError(t, err)
}

func TestVerifyToken_Rejected(t *testing.T) {
	verifier, tokens, _ := newVerifierFixture(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Invalid Token"}`))
	})

	valid, err := verifier.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.False(t, valid)

	// The rejected token is removed so the next flow starts at login.
	_, err = tokens.Token(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestVerifyToken_TransportFailure(t *testing.T) {
	verifier, tokens, srv := newVerifierFixture(t, func(w http.ResponseWriter, req *http.Request) {})
	srv.Close() // connection refused from here on

	valid, err := verifier.VerifyToken(context.Background())
	require.Error(t, err)
	assert.False(t, valid)

	// Validity is unknown, the credential stays.
	_, err = tokens.Token(context.Background())
	assert.NoError(t, err)
}

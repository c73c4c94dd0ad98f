package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ashutosh2ingh/AshMart/internal/api"
	"github.com/Ashutosh2ingh/AshMart/internal/store"
)

// tokenKey is the single credential-store key this client uses.
const tokenKey = "userToken"

// CredentialStore is the opaque local key-value storage for credentials.
type CredentialStore interface {
	GetCredential(ctx context.Context, key string) (string, error)
	SetCredential(ctx context.Context, key, value string) error
	RemoveCredential(ctx context.Context, key string) error
}

// TokenSource adapts the credential store to the API client. A missing
// credential surfaces as api.ErrUnauthenticated without touching the
// network.
type TokenSource struct {
	store CredentialStore
}

func NewTokenSource(store CredentialStore) *TokenSource {
	return &TokenSource{store: store}
}

func (t *TokenSource) Token(ctx context.Context) (string, error) {
	token, err := t.store.GetCredential(ctx, tokenKey)
	if errors.Is(err, store.ErrCredentialNotFound) {
		return "", api.ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	return token, nil
}

func (t *TokenSource) SetToken(ctx context.Context, token string) error {
	return t.store.SetCredential(ctx, tokenKey, token)
}

func (t *TokenSource) ClearToken(ctx context.Context) error {
	return t.store.RemoveCredential(ctx, tokenKey)
}

// Verifier checks the stored token against the server.
type Verifier struct {
	client *api.Client
	tokens *TokenSource
	log    *zap.Logger
}

func NewVerifier(client *api.Client, tokens *TokenSource, log *zap.Logger) *Verifier {
	return &Verifier{client: client, tokens: tokens, log: log}
}

// VerifyToken reports whether the stored token is valid. An invalid or
// rejected token is removed from the credential store so the surrounding
// flow redirects to login.
func (v *Verifier) VerifyToken(ctx context.Context) (bool, error) {
	err := v.client.Get(ctx, "/verify-token/", nil)
	if err == nil {
		return true, nil
	}

	var apiErr *api.Error
	if errors.Is(err, api.ErrUnauthenticated) || errors.As(err, &apiErr) {
		v.log.Info("stored token rejected, clearing credential", zap.Error(err))
		if e2 := v.tokens.ClearToken(ctx); e2 != nil {
			return false, e2
		}
		return false, nil
	}

	// Transport failure: token validity is unknown, keep the credential.
	return false, err
}

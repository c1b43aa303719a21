package tokens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prudhvinik1/deviceprov/internal/apperrors"
	"github.com/prudhvinik1/deviceprov/internal/models"
)

type stubVerifier struct {
	key, secret string
	err         error
	calls       int
}

func (s *stubVerifier) VerifyClient(_ context.Context, key, secret string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if key != s.key || secret != s.secret {
		return errors.New("invalid client credentials")
	}
	return nil
}

func newTestIssuer(v ClientVerifier, now time.Time) *Issuer {
	return NewIssuer(v, "test-signing-key", "deviceprov-test", time.Hour, 24*time.Hour,
		WithClock(func() time.Time { return now }))
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	now := time.Now()
	verifier := &stubVerifier{key: "ck", secret: "cs"}
	issuer := newTestIssuer(verifier, now)

	pair, err := issuer.Issue(context.Background(), "ck", "cs", "alice", []string{"device_type_arduino", "device_abc123"})
	require.NoError(t, err)
	assert.Equal(t, "device_type_arduino device_abc123", pair.Scope)
	assert.Equal(t, time.Hour, pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := issuer.Verify(pair.AccessToken, UseAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice", access.Subject)
	assert.Equal(t, "ck", access.ClientID)
	assert.Equal(t, []string{"device_type_arduino", "device_abc123"}, access.Scopes)
	assert.WithinDuration(t, now.Add(time.Hour), access.ExpiresAt, time.Second)

	refresh, err := issuer.Verify(pair.RefreshToken, UseRefresh)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(24*time.Hour), refresh.ExpiresAt, time.Second)
	assert.NotEqual(t, access.TokenID, refresh.TokenID)
}

func TestIssuer_RejectsWrongUse(t *testing.T) {
	issuer := newTestIssuer(&stubVerifier{key: "ck", secret: "cs"}, time.Now())

	pair, err := issuer.Issue(context.Background(), "ck", "cs", "alice", nil)
	require.NoError(t, err)

	_, err = issuer.Verify(pair.RefreshToken, UseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_ClientRejected(t *testing.T) {
	verifier := &stubVerifier{key: "ck", secret: "cs"}
	issuer := newTestIssuer(verifier, time.Now())

	_, err := issuer.Issue(context.Background(), "ck", "wrong", "alice", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.CredentialIssuance)
	assert.Equal(t, 1, verifier.calls)
}

func TestIssuer_MissingInputsSkipVerifier(t *testing.T) {
	verifier := &stubVerifier{key: "ck", secret: "cs"}
	issuer := newTestIssuer(verifier, time.Now())

	_, err := issuer.Issue(context.Background(), "", "cs", "alice", nil)
	assert.ErrorIs(t, err, apperrors.CredentialIssuance)
	_, err = issuer.Issue(context.Background(), "ck", "cs", "", nil)
	assert.ErrorIs(t, err, apperrors.CredentialIssuance)
	assert.Zero(t, verifier.calls)
}

func TestIssuer_ExpiredToken(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	issuer := newTestIssuer(&stubVerifier{key: "ck", secret: "cs"}, issued)

	pair, err := issuer.Issue(context.Background(), "ck", "cs", "alice", nil)
	require.NoError(t, err)

	later := newTestIssuer(nil, time.Now())
	_, err = later.Verify(pair.AccessToken, UseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_ForeignKeyRejected(t *testing.T) {
	issuer := newTestIssuer(&stubVerifier{key: "ck", secret: "cs"}, time.Now())
	other := NewIssuer(nil, "another-key", "deviceprov-test", time.Hour, time.Hour)

	token, err := other.IssueOwnerToken(models.Owner{Username: "alice"}, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify(token, UseOwner)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_OwnerToken(t *testing.T) {
	issuer := newTestIssuer(nil, time.Now())

	token, err := issuer.IssueOwnerToken(models.Owner{Username: "alice", Tenant: "acme.com"}, time.Hour)
	require.NoError(t, err)

	claims, err := issuer.Verify(token, UseOwner)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "acme.com", claims.Tenant)
	assert.Empty(t, claims.Scopes)

	_, err = issuer.IssueOwnerToken(models.Owner{}, time.Hour)
	assert.Error(t, err)
}

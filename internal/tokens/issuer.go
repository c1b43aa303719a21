// Package tokens issues and verifies the scoped access/refresh tokens handed
// to enrolled devices, and the owner bearer tokens accepted by the API.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prudhvinik1/deviceprov/internal/apperrors"
	"github.com/prudhvinik1/deviceprov/internal/models"
)

const (
	UseAccess  = "access"
	UseRefresh = "refresh"
	UseOwner   = "owner"
)

var ErrInvalidToken = errors.New("invalid token")

// ClientVerifier authenticates a consumer key/secret pair.
type ClientVerifier interface {
	VerifyClient(ctx context.Context, consumerKey, consumerSecret string) error
}

// Claims is the verified content of a token.
type Claims struct {
	Subject   string
	Tenant    string
	ClientID  string
	Scopes    []string
	Use       string
	TokenID   string
	ExpiresAt time.Time
}

type claims struct {
	Scope    string `json:"scope,omitempty"`
	Use      string `json:"token_use"`
	ClientID string `json:"azp,omitempty"`
	Tenant   string `json:"tenant,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens with a single service key.
type Issuer struct {
	verifier   ClientVerifier
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(verifier ClientVerifier, secret, issuer string, accessTTL, refreshTTL time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		verifier:   verifier,
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue authenticates the client and returns an access/refresh pair scoped to
// the given scopes and bound to owner.
func (i *Issuer) Issue(ctx context.Context, consumerKey, consumerSecret, owner string, scopes []string) (*models.TokenPair, error) {
	const op = "tokens.Issue"

	if consumerKey == "" || consumerSecret == "" {
		return nil, apperrors.New(apperrors.KindCredentialIssuance, op, "client credentials are required")
	}
	if owner == "" {
		return nil, apperrors.New(apperrors.KindCredentialIssuance, op, "token owner is required")
	}
	if err := i.verifier.VerifyClient(ctx, consumerKey, consumerSecret); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindCredentialIssuance, op, "client authentication failed")
	}

	scope := strings.Join(scopes, " ")
	access, err := i.sign(claims{Scope: scope, Use: UseAccess, ClientID: consumerKey}, owner, i.accessTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindCredentialIssuance, op, "failed to sign access token")
	}
	refresh, err := i.sign(claims{Scope: scope, Use: UseRefresh, ClientID: consumerKey}, owner, i.refreshTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindCredentialIssuance, op, "failed to sign refresh token")
	}

	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		Scope:        scope,
		ExpiresIn:    i.accessTTL,
	}, nil
}

// IssueOwnerToken mints a bearer token identifying an owner to the API.
func (i *Issuer) IssueOwnerToken(owner models.Owner, ttl time.Duration) (string, error) {
	if owner.Username == "" {
		return "", fmt.Errorf("owner username is required")
	}
	return i.sign(claims{Use: UseOwner, Tenant: owner.Tenant}, owner.Username, ttl)
}

func (i *Issuer) sign(c claims, subject string, ttl time.Duration) (string, error) {
	now := i.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   subject,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(i.secret)
}

// Verify parses a token and checks its signature, expiry, issuer and use.
func (i *Issuer) Verify(tokenString, use string) (*Claims, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if c.Use != use || c.Subject == "" {
		return nil, ErrInvalidToken
	}

	var scopes []string
	if c.Scope != "" {
		scopes = strings.Fields(c.Scope)
	}
	out := &Claims{
		Subject:  c.Subject,
		Tenant:   c.Tenant,
		ClientID: c.ClientID,
		Scopes:   scopes,
		Use:      c.Use,
		TokenID:  c.ID,
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}

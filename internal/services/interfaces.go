package services

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/prudhvinik1/deviceprov/internal/appkey"
	"github.com/prudhvinik1/deviceprov/internal/artifact"
	"github.com/prudhvinik1/deviceprov/internal/models"
)

type IDAllocator interface {
	Generate() string
}

type KeyProvider interface {
	GetOrCreate(ctx context.Context, req appkey.Request) (*models.ApplicationKey, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, consumerKey, consumerSecret, owner string, scopes []string) (*models.TokenPair, error)
}

type Packager interface {
	Pack(ctx context.Context, req artifact.PackRequest) (*models.Artifact, error)
}

package models

import (
	"time"
)

type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	Scope        string        `json:"scope"`
	ExpiresIn    time.Duration `json:"expires_in"`
}

// Owner is the authenticated principal a device gets enrolled under.
type Owner struct {
	Username string `json:"username"`
	Tenant   string `json:"tenant"`
}

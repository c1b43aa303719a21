// Command tokengen mints owner bearer tokens for local use of the enrollment API.
// It signs with JWT_SECRET, so tokens only work against a server sharing it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/prudhvinik1/deviceprov/internal/models"
	"github.com/prudhvinik1/deviceprov/internal/tokens"
)

type tokenOutput struct {
	Token     string `json:"token"`
	Owner     string `json:"owner"`
	Tenant    string `json:"tenant,omitempty"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	_ = godotenv.Load()

	owner := flag.String("owner", "", "Owner username (required)")
	tenant := flag.String("tenant", "", "Tenant domain (server default when empty)")
	ttl := flag.Duration("ttl", time.Hour, "Token time-to-live")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "Signing key (defaults to JWT_SECRET)")
	issuerName := flag.String("issuer", envOr("TOKEN_ISSUER", "deviceprov"), "Token issuer (defaults to TOKEN_ISSUER)")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	if *owner == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "usage: tokengen -owner <username> [-tenant <domain>] [-ttl 1h] [-json]")
		fmt.Fprintln(os.Stderr, "JWT_SECRET or -secret must be set")
		os.Exit(2)
	}

	issuer := tokens.NewIssuer(nil, *secret, *issuerName, *ttl, *ttl)
	token, err := issuer.IssueOwnerToken(models.Owner{Username: *owner, Tenant: *tenant}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}

	if !*asJSON {
		fmt.Println(token)
		return
	}

	out := tokenOutput{
		Token:     token,
		Owner:     *owner,
		Tenant:    *tenant,
		ExpiresIn: ttl.String(),
		Usage:     fmt.Sprintf(`curl -H "Authorization: Bearer %s" localhost:8080/enrollment/devices`, token),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

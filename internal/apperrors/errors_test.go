package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := New(KindNotFound, "get", "device abc not found")

	assert.ErrorIs(t, err, NotFound)
	assert.NotErrorIs(t, err, Registry)

	wrapped := fmt.Errorf("handler: %w", err)
	assert.ErrorIs(t, wrapped, NotFound)
}

func TestWrap_KeepsCause(t *testing.T) {
	err := Wrap(context.DeadlineExceeded, KindCredentialIssuance, "provision", "token issuance failed")

	assert.ErrorIs(t, err, CredentialIssuance)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "provision: token issuance failed")
	assert.Nil(t, Wrap(nil, KindRegistry, "get", "x"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid request", New(KindInvalidRequest, "provision", "owner is required"), http.StatusBadRequest},
		{"unauthorized", New(KindUnauthorized, "auth", ""), http.StatusUnauthorized},
		{"not found", New(KindNotFound, "get", ""), http.StatusNotFound},
		{"declined", New(KindDeclined, "remove", ""), http.StatusNotAcceptable},
		{"credential issuance", New(KindCredentialIssuance, "provision", ""), http.StatusInternalServerError},
		{"provisioning", New(KindProvisioning, "provision", ""), http.StatusInternalServerError},
		{"registration", New(KindRegistration, "provision", ""), http.StatusInternalServerError},
		{"registry", New(KindRegistry, "get", ""), http.StatusInternalServerError},
		{"packaging", New(KindPackaging, "provision", ""), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage_OnlyForInvalidRequest(t *testing.T) {
	assert.Equal(t, "owner is required", PublicMessage(New(KindInvalidRequest, "provision", "owner is required")))
	assert.Empty(t, PublicMessage(Wrap(errors.New("dial tcp: refused"), KindRegistry, "get", "registry lookup failed")))
	assert.Empty(t, PublicMessage(errors.New("boom")))
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prudhvinik1/deviceprov/internal/apperrors"
)

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// headers are already sent; an encoding error cannot change the status
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates an error into its status code. Only invalid request
// messages reach the client.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, apperrors.HTTPStatus(err), errorResponse{
		Error:            string(apperrors.KindOf(err)),
		ErrorDescription: apperrors.PublicMessage(err),
	})
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/abhisek/studybuddy/internal/api"
)

const maxBodyBytes = 1 << 20

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, api.ErrorResponse{Error: message}, status)
}

// decodeBody reads a JSON body into dst. An empty body leaves dst as is.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

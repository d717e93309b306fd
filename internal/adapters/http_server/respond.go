package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

const maxJSONBody = 1 << 20

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields []domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// notFound describes how a route reports domain.ErrNotFound.
type notFound struct {
	status int
	detail string
}

var defaultNotFound = notFound{status: http.StatusNotFound, detail: "resource not found"}

// writeError maps a service error onto a problem response. Unexpected errors
// are logged and collapse to a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, nf notFound) {
	var ve *domain.ValidationError
	var pr *domain.PaymentRejectedError
	switch {
	case errors.As(err, &ve):
		writeProblemFields(w, http.StatusBadRequest, "Validation failed", "", ve.Fields)
	case errors.As(err, &pr):
		writeProblem(w, http.StatusBadRequest, "Payment rejected", pr.Reason)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Invalid Credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, nf.status, http.StatusText(nf.status), nf.detail)
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeProblem(w, http.StatusBadRequest, "Bad Request", "User already exists")
	case errors.Is(err, domain.ErrDuplicateBooking):
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Booking already exists for this payment")
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusBadRequest, "Bad Request", "conflict")
	case errors.Is(err, domain.ErrUpstream):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("upstream failure")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "an upstream service failed")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeCachedJSON serves v with a weak ETag and answers 304 when the client
// already holds that version.
func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); etag != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		ve := &domain.ValidationError{}
		if errors.Is(err, io.EOF) {
			ve.Add("body", "is required")
		} else {
			ve.Add("body", "must be valid JSON")
		}
		return ve
	}
	return nil
}

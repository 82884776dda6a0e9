// Package api holds the request decoding and response envelope shared by HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/aristath/cryptorisk/internal/domain"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ContentTypeMsgpack is accepted for request bodies and honored in Accept headers.
const ContentTypeMsgpack = "application/msgpack"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Envelope is the response shape of every API endpoint.
type Envelope struct {
	Data     interface{} `json:"data,omitempty" msgpack:"data,omitempty"`
	Error    string      `json:"error,omitempty" msgpack:"error,omitempty"`
	Metadata Metadata    `json:"metadata" msgpack:"metadata"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp string `json:"timestamp" msgpack:"timestamp"`
}

func newEnvelope() Envelope {
	return Envelope{Metadata: Metadata{Timestamp: time.Now().Format(time.RFC3339)}}
}

// WantsMsgpack reports whether the client asked for a msgpack response.
func WantsMsgpack(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Accept"))
	return err == nil && mt == ContentTypeMsgpack
}

// WriteData writes data inside the envelope, encoded per the Accept header.
func WriteData(w http.ResponseWriter, r *http.Request, status int, data interface{}, log zerolog.Logger) {
	env := newEnvelope()
	env.Data = data
	write(w, r, status, env, log)
}

// WriteError maps err to a status code and writes it inside the envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error, log zerolog.Logger) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Request rejected")
	}
	WriteStatusError(w, r, status, err.Error(), log)
}

// WriteStatusError writes an error message with an explicit status.
func WriteStatusError(w http.ResponseWriter, r *http.Request, status int, msg string, log zerolog.Logger) {
	env := newEnvelope()
	env.Error = msg
	write(w, r, status, env, log)
}

// StatusFor maps engine error kinds to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrEmptyPortfolio),
		errors.Is(err, domain.ErrInsufficientData),
		errors.Is(err, domain.ErrUndefinedRatio),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrBadRequest marks a body that could not be decoded.
var ErrBadRequest = errors.New("bad request")

// Decode reads a JSON or msgpack body (chosen by Content-Type) into v.
func Decode(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == ContentTypeMsgpack {
		if err := msgpack.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("%w: invalid msgpack body: %v", ErrBadRequest, err)
		}
		return nil
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	return nil
}

func write(w http.ResponseWriter, r *http.Request, status int, env Envelope, log zerolog.Logger) {
	if WantsMsgpack(r) {
		payload, err := msgpack.Marshal(env)
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode msgpack response")
			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		_, _ = w.Write(payload)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

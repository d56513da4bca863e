package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"musicify/pkg/models"

	"github.com/sirupsen/logrus"
)

// requestBody holds the decoded fields of a JSON request. Values keep the
// type the client sent and are handed to the store as-is.
type requestBody map[string]any

// decodeBody reads the request body. An empty body, or JSON that is not an
// object, yields no fields so every column is stored as NULL. Only a body
// that does not parse is an error.
func decodeBody(r *http.Request) (requestBody, error) {
	body := requestBody{}
	if r.Body == nil {
		return body, nil
	}

	var raw any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	err := dec.Decode(&raw)
	if errors.Is(err, io.EOF) {
		return body, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if fields, ok := raw.(map[string]any); ok {
		body = fields
	}
	return body, nil
}

// value returns field key as a SQLite bind value. Absent fields and null are
// nil. Whole numbers bind as integers and fractional ones as reals, so
// column affinity applies the same way it would to a literal. Objects and
// arrays are stored as their JSON text.
func (b requestBody) value(key string) any {
	switch v := b[key].(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(data)
	default:
		return v
	}
}

// respondJSON encodes v with a 200 unless a status was already written.
func (ms *MusicServer) respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ms.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// respondWithError sends {"error": <raw message>} with the given status.
func (ms *MusicServer) respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	logEntry := ms.logger.WithFields(logrus.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"status_code": statusCode,
		"request_id":  w.Header().Get(requestIDHeader),
	}).WithError(err)

	if statusCode >= 500 {
		logEntry.Error("Server error")
	} else {
		logEntry.Warn("Client error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	ms.respondJSON(w, models.ErrorResponse{Error: err.Error()})
}

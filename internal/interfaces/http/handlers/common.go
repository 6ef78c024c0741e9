// Package handlers implements the HTTP handlers of the API server.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeAppError maps err to its HTTP status.  Server-side failures are
// masked; client errors keep their message.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}

	resp := ErrorResponse{Code: string(code), Timestamp: time.Now().UTC()}
	var ae *errors.AppError
	switch {
	case status < http.StatusInternalServerError && errors.As(err, &ae):
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	default:
		resp.Message = errors.DefaultMessageForCode(code)
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads an optional JSON body into dst.  An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrap(err, errors.CodeInvalidParam, "invalid request body")
	}
	return nil
}

//Personal.AI order the ending

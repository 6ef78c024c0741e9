package gateway

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"

	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

type attemptKind int

const (
	attemptOK attemptKind = iota
	attemptTransient
	attemptFatal
)

func (k attemptKind) String() string {
	switch k {
	case attemptOK:
		return "ok"
	case attemptTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// attemptResult is the outcome of one backend call.  Only the retry loop reads
// it; callers see a single error after the loop ends.
type attemptResult struct {
	kind   attemptKind
	reason string
	resp   *Response
	cause  error
}

// classify tags one attempt.  parent is the caller's context: a deadline on
// the per-attempt context alone is transient, while a cancelled parent stops
// the loop.
func classify(parent context.Context, resp *Response, err error) attemptResult {
	if err == nil {
		if resp == nil || strings.TrimSpace(resp.Content) == "" {
			return attemptResult{kind: attemptTransient, reason: "empty_response", cause: stderrors.New("empty content from inference backend")}
		}
		return attemptResult{kind: attemptOK, resp: resp}
	}

	if parent.Err() != nil {
		return attemptResult{kind: attemptFatal, reason: "cancelled", cause: parent.Err()}
	}

	var se *StatusError
	if stderrors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			return attemptResult{kind: attemptTransient, reason: "rate_limited", cause: err}
		case se.StatusCode >= 500:
			return attemptResult{kind: attemptTransient, reason: "server_error", cause: err}
		case strings.Contains(strings.ToLower(se.Body), "quota exceeded"):
			return attemptResult{kind: attemptTransient, reason: "quota_exceeded", cause: err}
		default:
			return attemptResult{kind: attemptFatal, reason: "rejected", cause: err}
		}
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return attemptResult{kind: attemptTransient, reason: "timeout", cause: err}
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return attemptResult{kind: attemptTransient, reason: "network", cause: err}
	}
	if strings.Contains(strings.ToLower(err.Error()), "quota exceeded") {
		return attemptResult{kind: attemptTransient, reason: "quota_exceeded", cause: err}
	}
	if errors.IsCode(err, errors.ErrCodeSerialization) {
		return attemptResult{kind: attemptTransient, reason: "malformed_response", cause: err}
	}
	return attemptResult{kind: attemptTransient, reason: "transport", cause: err}
}

//Personal.AI order the ending

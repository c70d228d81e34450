// Package assistant turns a candidate's message and code context into a
// structured suggestion via a model backend. It also computes the
// context-quality sub-record attached to each logged interaction.
package assistant

import (
	"context"
	"errors"

	"github.com/hireloop/evalcore/internal/domain/model"
)

// Sentinel kinds for assistant errors.
var (
	ErrInvoke      = errors.New("assistant invocation failed")
	ErrBadResponse = errors.New("assistant returned an unparseable response")
)

// Request is one assist request.
type Request struct {
	UserMessage string
	Context     model.RequestContext
}

// Invoker produces a structured suggestion for a request.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (model.Suggestion, error)
}

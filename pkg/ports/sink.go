package ports

import (
	"context"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// CompletionSink is supplied by the host application (e.g. a queueing
// system) and receives the completion record when a session reaches a
// terminal node. The returned token, if any, is an external correlation
// identifier such as a queue number; it is attached to the record.
//
// Sink failures never affect traversal: the engine logs them and returns the
// record without a token.
type CompletionSink func(ctx context.Context, record *domain.CompletionRecord) (token string, err error)

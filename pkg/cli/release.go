package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/agentsweep/pkg/utils/logging"
)

// releaser collects clients opened by a command and closes them in reverse order
type releaser struct {
	names   []string
	closers []io.Closer
}

func (r *releaser) add(name string, c io.Closer) {
	r.names = append(r.names, name)
	r.closers = append(r.closers, c)
}

// release closes every client. A failure is logged and does not stop the others.
func (r *releaser) release(ctx context.Context) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			logging.From(ctx).Warn("failed to close client", "client", r.names[i], "error", err)
		}
	}
	r.names, r.closers = nil, nil
}

package decommission

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/agentsweep/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// phase is the state of one running cleanup phase. Errors returned by the phase action
// go to the report; failures passed to warn are best-effort side effects and are only logged.
type phase struct {
	label    model.Category
	logger   *slog.Logger
	deleted  int
	warnings int
}

func (p *phase) warn(msg string, err error, args ...any) {
	p.warnings++
	p.logger.Warn(msg, append([]any{"error", err}, args...)...)
}

// runPhase runs one cleanup phase to completion. A failure, including a panic, is recorded
// in the report and never escapes.
func (u *UseCase) runPhase(ctx context.Context, report *model.CleanupReport, label model.Category, action func(ctx context.Context, p *phase) error) {
	logger := logging.From(ctx).With("label", label)
	p := &phase{label: label, logger: logger}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = goerr.Wrap(e, "cleanup phase panicked")
				} else {
					err = goerr.New("cleanup phase panicked", goerr.V("panic", r))
				}
			}
		}()
		return action(logging.With(ctx, logger), p)
	}()

	if err != nil {
		logger.Warn("cleanup phase failed", "error", err, "deleted", p.deleted, "warnings", p.warnings)
		report.CleanupErrors = append(report.CleanupErrors, &model.CleanupError{
			Label: label,
			Err:   err,
		})
		return
	}

	logger.Debug("cleanup phase completed", "deleted", p.deleted, "warnings", p.warnings)
}

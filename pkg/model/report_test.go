package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestCleanupReport(t *testing.T) {
	report := &model.CleanupReport{RunID: model.NewRunID()}
	gt.True(t, report.OK())
	gt.NoError(t, report.Err())
	gt.A(t, report.Labels()).Length(0)

	errDenied := errors.New("denied")
	report.CleanupErrors = append(report.CleanupErrors,
		&model.CleanupError{Label: model.CategoryKeys, Err: errors.New("timeout")},
		&model.CleanupError{Label: model.CategoryGraphFacts, Err: errDenied},
	)

	gt.False(t, report.OK())
	gt.Equal(t, report.Labels(), []model.Category{model.CategoryKeys, model.CategoryGraphFacts})

	err := report.Err()
	gt.Error(t, err)
	gt.True(t, errors.Is(err, errDenied))
	gt.Equal(t, err.Error(), "agent-keys: timeout\ngraph-facts: denied")

	var cleanupErr *model.CleanupError
	gt.True(t, errors.As(err, &cleanupErr))
	gt.Equal(t, cleanupErr.Label, model.CategoryKeys)
}

func TestNewRunID(t *testing.T) {
	gt.True(t, model.NewRunID() != model.NewRunID())
}

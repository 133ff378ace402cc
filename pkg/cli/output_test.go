package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/gt"
)

var testIdentity = model.AgentIdentity{WorkspaceID: "ws1", AgentID: "a1"}

func TestPrintReport(t *testing.T) {
	t.Run("clean run", func(t *testing.T) {
		var buf bytes.Buffer
		printReport(&buf, &model.CleanupReport{RunID: "run-1", Identity: testIdentity})
		gt.Equal(t, buf.String(), "agent deleted: ws1:a1 (run run-1)\n")
	})

	t.Run("with issues", func(t *testing.T) {
		var buf bytes.Buffer
		printReport(&buf, &model.CleanupReport{
			RunID:    "run-2",
			Identity: testIdentity,
			CleanupErrors: []*model.CleanupError{
				{Label: model.CategorySchedules, Err: errors.New("boom")},
				{Label: model.CategoryVectorDatabases, Err: errors.New("denied")},
			},
		})

		out := buf.String()
		gt.True(t, strings.HasPrefix(out, "agent deleted, 2 cleanup issues: ws1:a1 (run run-2)\n"))
		gt.True(t, strings.Contains(out, "  - agent-schedules: boom\n"))
		gt.True(t, strings.Contains(out, "  - vector-databases: denied\n"))
	})
}

func TestFinishRun(t *testing.T) {
	failed := &model.CleanupReport{
		RunID:    "run-3",
		Identity: testIdentity,
		CleanupErrors: []*model.CleanupError{
			{Label: model.CategoryEvalResults, Err: errors.New("throttled")},
		},
	}

	t.Run("fatal run still prints phase failures", func(t *testing.T) {
		var buf bytes.Buffer
		errFatal := errors.New("agent table unavailable")
		err := finishRun(&buf, testIdentity, failed, errFatal, false)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, errFatal))

		out := buf.String()
		gt.True(t, strings.HasPrefix(out, "agent not deleted, 1 cleanup issues: ws1:a1 (run run-3)\n"))
		gt.True(t, strings.Contains(out, "  - agent-eval-results: throttled\n"))
	})

	t.Run("fatal run without report", func(t *testing.T) {
		var buf bytes.Buffer
		gt.Error(t, finishRun(&buf, testIdentity, nil, errors.New("invalid"), false))
		gt.Equal(t, buf.String(), "")
	})

	t.Run("issues are not an error unless strict", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, finishRun(&buf, testIdentity, failed, nil, false))
		gt.True(t, strings.HasPrefix(buf.String(), "agent deleted, 1 cleanup issues"))

		err := finishRun(&buf, testIdentity, failed, nil, true)
		gt.True(t, errors.Is(err, errCleanupIssues))
	})

	t.Run("clean run under strict", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, finishRun(&buf, testIdentity, &model.CleanupReport{RunID: "run-4", Identity: testIdentity}, nil, true))
	})
}

func TestPrintInventory(t *testing.T) {
	inv := &model.Inventory{
		Identity:     testIdentity,
		AgentExists:  true,
		Records:      map[model.Category]int{model.CategoryConversations: 3},
		FileBlobKeys: []string{"conversation-files/ws1/a.png"},
	}

	var buf bytes.Buffer
	printInventory(&buf, inv, false)
	out := buf.String()
	gt.True(t, strings.HasPrefix(out, "agent ws1:a1: present\n"))
	gt.True(t, strings.Contains(out, "agent-conversations"))
	gt.False(t, strings.Contains(out, "graph-facts"))
	gt.False(t, strings.Contains(out, "conversation-files/ws1/a.png"))

	buf.Reset()
	printInventory(&buf, inv, true)
	gt.True(t, strings.Contains(buf.String(), "    conversation-files/ws1/a.png\n"))
}

func TestRunRequiresIdentity(t *testing.T) {
	err := Run(t.Context(), []string{"agentsweep", "decommission", "--project", "p"})
	gt.NotNil(t, err)
	gt.Equal(t, err.Code, 1)
}

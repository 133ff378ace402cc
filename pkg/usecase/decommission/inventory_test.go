package decommission_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestInventory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAgent(t, "ws1", "a1")
	f.seedAgent(t, "ws1", "a2")
	f.put(t, "agent-keys", "foreign", owned("ws2", "a1", nil))

	inv, err := f.uc.Inventory(ctx, identity("ws1", "a1"))
	gt.NoError(t, err)
	gt.True(t, inv.AgentExists)
	gt.Equal(t, inv.Records, map[model.Category]int{
		model.CategoryKeys:            3,
		model.CategorySchedules:       1,
		model.CategoryConversations:   2,
		model.CategoryEvalJudges:      1,
		model.CategoryEvalResults:     2,
		model.CategoryStreamServers:   1,
		model.CategoryDelegationTasks: 1,
		model.CategoryBotIntegrations: 2,
	})
	gt.Equal(t, inv.FileBlobKeys, []string{
		"conversation-files/ws1/a1/abc.png",
		"conversation-files/ws1/a1/report.pdf",
	})

	// Nothing is deleted
	for _, call := range f.log.calls {
		gt.S(t, call).NotContains("delete:")
	}
	gt.Equal(t, f.countOwned(t, "agent-keys", "ws1", "a1"), 3)
}

func TestInventoryAfterRemoval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAgent(t, "ws1", "a1")

	_, err := f.uc.RemoveAgentResources(ctx, identity("ws1", "a1"))
	gt.NoError(t, err)

	inv, err := f.uc.Inventory(ctx, identity("ws1", "a1"))
	gt.NoError(t, err)
	gt.False(t, inv.AgentExists)
	gt.Equal(t, len(inv.Records), 0)
	gt.A(t, inv.FileBlobKeys).Length(0)
}

func TestInventoryScanFailure(t *testing.T) {
	f := newFixture(t)
	f.seedAgent(t, "ws1", "a1")
	f.faulty.failQuery["agent-eval-judges"] = true

	_, err := f.uc.Inventory(context.Background(), identity("ws1", "a1"))
	gt.Error(t, err)
}

func TestInventoryInvalidIdentity(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Inventory(context.Background(), identity("ws1", ""))
	gt.Error(t, err)
}

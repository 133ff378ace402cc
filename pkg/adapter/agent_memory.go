package adapter

import (
	"context"
	"strings"

	"github.com/m-mizutani/agentsweep/pkg/model"
)

// VectorIndex keeps the vector databases of agents as objects under a per-agent prefix
type VectorIndex struct {
	storage Storage
	prefix  string
}

// NewVectorIndex creates a VectorIndex. Indexes of an agent live under {prefix}{agentID}/.
func NewVectorIndex(storage Storage, prefix string) *VectorIndex {
	return &VectorIndex{storage: storage, prefix: normalizePrefix(prefix, "vectordb/")}
}

// AgentPrefix returns the object prefix holding every index of the agent
func (x *VectorIndex) AgentPrefix(agentID model.AgentID) string {
	return x.prefix + string(agentID) + "/"
}

func (x *VectorIndex) RemoveAgentIndex(ctx context.Context, agentID model.AgentID) (int, error) {
	return x.storage.DeletePrefix(ctx, x.AgentPrefix(agentID))
}

// GraphFactStore keeps one fact file per agent
type GraphFactStore struct {
	storage Storage
	prefix  string
}

// NewGraphFactStore creates a GraphFactStore. Facts live at {prefix}{workspaceID}/{agentID}/facts.parquet.
func NewGraphFactStore(storage Storage, prefix string) *GraphFactStore {
	return &GraphFactStore{storage: storage, prefix: normalizePrefix(prefix, "graphs/")}
}

// FactKey returns the object key of the agent's fact file
func (x *GraphFactStore) FactKey(workspaceID model.WorkspaceID, agentID model.AgentID) string {
	return x.prefix + string(workspaceID) + "/" + string(agentID) + "/facts.parquet"
}

func (x *GraphFactStore) RemoveAgentFacts(ctx context.Context, workspaceID model.WorkspaceID, agentID model.AgentID) error {
	return x.storage.Delete(ctx, x.FactKey(workspaceID, agentID))
}

func normalizePrefix(prefix, fallback string) string {
	if prefix == "" {
		return fallback
	}
	if !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}

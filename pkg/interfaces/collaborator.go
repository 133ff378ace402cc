package interfaces

import (
	"context"

	"github.com/m-mizutani/agentsweep/pkg/model"
)

// ObjectStore deletes file blobs. A missing object is not an error.
type ObjectStore interface {
	DeleteObject(ctx context.Context, key string) error
}

// CommandRegistrar removes slash commands registered on a chat platform
type CommandRegistrar interface {
	DeregisterCommand(ctx context.Context, applicationID, commandID, botToken string) error
}

// VectorIndex manages the vector databases of agents
type VectorIndex interface {
	// RemoveAgentIndex removes every index of the agent and returns the number of removed objects
	RemoveAgentIndex(ctx context.Context, agentID model.AgentID) (int, error)
}

// GraphFactStore manages the graph fact files of agents
type GraphFactStore interface {
	RemoveAgentFacts(ctx context.Context, workspaceID model.WorkspaceID, agentID model.AgentID) error
}

package model

import (
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidIdentity = goerr.New("invalid agent identity")
	ErrRecordNotFound  = goerr.New("record not found")
)

type WorkspaceID string

type AgentID string

// AgentIdentity is the scoping key of a decommissioning run
type AgentIdentity struct {
	WorkspaceID WorkspaceID
	AgentID     AgentID
}

// Validate checks both identifiers are set
func (x AgentIdentity) Validate() error {
	if x.WorkspaceID == "" {
		return goerr.Wrap(ErrInvalidIdentity, "workspace id is empty", goerr.V("agent_id", x.AgentID))
	}
	if x.AgentID == "" {
		return goerr.Wrap(ErrInvalidIdentity, "agent id is empty", goerr.V("workspace_id", x.WorkspaceID))
	}
	return nil
}

// Key returns the deterministic record key used for agent-scoped singleton records
func (x AgentIdentity) Key() string {
	return string(x.WorkspaceID) + ":" + string(x.AgentID)
}

func (x AgentIdentity) String() string {
	return x.Key()
}

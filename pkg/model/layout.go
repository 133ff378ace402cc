package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// Layout describes where the records of each category live in the document store
type Layout struct {
	AgentTable string              `yaml:"agent_table"`
	Tables     map[Category]string `yaml:"tables"`
	Fields     LayoutFields        `yaml:"fields"`
}

// LayoutFields names the record fields read during decommissioning
type LayoutFields struct {
	WorkspaceID string `yaml:"workspace_id"`
	AgentID     string `yaml:"agent_id"`
	Messages    string `yaml:"messages"`
	Platform    string `yaml:"platform"`
	Config      string `yaml:"config"`
}

// DefaultLayout returns the layout used by the production deployment
func DefaultLayout() *Layout {
	tables := make(map[Category]string)
	for _, c := range Categories() {
		if c.HasRecords() {
			tables[c] = string(c)
		}
	}

	return &Layout{
		AgentTable: "agents",
		Tables:     tables,
		Fields: LayoutFields{
			WorkspaceID: "workspaceId",
			AgentID:     "agentId",
			Messages:    "messages",
			Platform:    "platform",
			Config:      "config",
		},
	}
}

// Merge returns a copy of the layout with every non-empty value of other applied
func (l *Layout) Merge(other *Layout) *Layout {
	merged := &Layout{
		AgentTable: l.AgentTable,
		Tables:     make(map[Category]string, len(l.Tables)),
		Fields:     l.Fields,
	}
	for c, t := range l.Tables {
		merged.Tables[c] = t
	}
	if other == nil {
		return merged
	}

	if other.AgentTable != "" {
		merged.AgentTable = other.AgentTable
	}
	for c, t := range other.Tables {
		if t != "" {
			merged.Tables[c] = t
		}
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&merged.Fields.WorkspaceID, other.Fields.WorkspaceID)
	set(&merged.Fields.AgentID, other.Fields.AgentID)
	set(&merged.Fields.Messages, other.Fields.Messages)
	set(&merged.Fields.Platform, other.Fields.Platform)
	set(&merged.Fields.Config, other.Fields.Config)

	return merged
}

// Validate checks every record-backed category has a table and every field is named
func (l *Layout) Validate() error {
	if l.AgentTable == "" {
		return goerr.New("agent table is not set")
	}
	for _, c := range Categories() {
		if !c.HasRecords() {
			if _, ok := l.Tables[c]; ok {
				return goerr.New("category has no records", goerr.V("category", c))
			}
			continue
		}
		if l.Tables[c] == "" {
			return goerr.New("table is not set", goerr.V("category", c))
		}
	}
	for c := range l.Tables {
		if c.Lookup() == 0 {
			return goerr.New("unknown category", goerr.V("category", c))
		}
	}

	fields := map[string]string{
		"workspace_id": l.Fields.WorkspaceID,
		"agent_id":     l.Fields.AgentID,
		"messages":     l.Fields.Messages,
		"platform":     l.Fields.Platform,
		"config":       l.Fields.Config,
	}
	for name, v := range fields {
		if v == "" {
			return goerr.New("field name is not set", goerr.V("field", name))
		}
	}

	return nil
}

// Table returns the table of the category
func (l *Layout) Table(c Category) string {
	return l.Tables[c]
}

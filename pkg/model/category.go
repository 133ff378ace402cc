package model

// Category names one class of resource owned by an agent
type Category string

const (
	CategoryKeys            Category = "agent-keys"
	CategorySchedules       Category = "agent-schedules"
	CategoryConversations   Category = "agent-conversations"
	CategoryEvalJudges      Category = "agent-eval-judges"
	CategoryEvalResults     Category = "agent-eval-results"
	CategoryStreamServers   Category = "agent-stream-servers"
	CategoryDelegationTasks Category = "agent-delegation-tasks"
	CategoryBotIntegrations Category = "bot-integrations"
	CategoryGraphFacts      Category = "graph-facts"
	CategoryVectorDatabases Category = "vector-databases"
)

// Lookup is how the records of a category are located
type Lookup int

const (
	// LookupIndexFiltered queries the agent index with a workspace filter expression
	LookupIndexFiltered Lookup = iota + 1
	// LookupIndexClientScoped queries the agent index and drops other workspaces client-side
	LookupIndexClientScoped
	// LookupSingleKey reads one record at the agent's deterministic key
	LookupSingleKey
	// LookupCollaborator delegates to an external collaborator, no records involved
	LookupCollaborator
)

// Categories returns every category in cleanup order
func Categories() []Category {
	return []Category{
		CategoryKeys,
		CategorySchedules,
		CategoryConversations,
		CategoryEvalJudges,
		CategoryEvalResults,
		CategoryStreamServers,
		CategoryDelegationTasks,
		CategoryBotIntegrations,
		CategoryGraphFacts,
		CategoryVectorDatabases,
	}
}

// Lookup returns the lookup strategy of the category
func (c Category) Lookup() Lookup {
	switch c {
	case CategoryConversations, CategoryEvalJudges, CategoryEvalResults:
		return LookupIndexFiltered
	case CategoryKeys, CategorySchedules, CategoryDelegationTasks, CategoryBotIntegrations:
		return LookupIndexClientScoped
	case CategoryStreamServers:
		return LookupSingleKey
	case CategoryGraphFacts, CategoryVectorDatabases:
		return LookupCollaborator
	default:
		return 0
	}
}

// HasRecords reports whether the category is backed by document store records
func (c Category) HasRecords() bool {
	switch c.Lookup() {
	case LookupIndexFiltered, LookupIndexClientScoped, LookupSingleKey:
		return true
	default:
		return false
	}
}

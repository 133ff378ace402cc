package decommission

import (
	"context"
	"iter"
	"maps"
	"slices"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// scan yields the records of the category that belong to the agent. Categories whose
// index carries only the agent id are filtered by workspace here.
func (u *UseCase) scan(ctx context.Context, c model.Category, id model.AgentIdentity) iter.Seq2[*model.Record, error] {
	fields := u.layout.Fields
	q := &model.IndexQuery{
		Table: u.layout.Table(c),
		Key:   model.Condition{Field: fields.AgentID, Value: string(id.AgentID)},
	}

	clientScoped := c.Lookup() == model.LookupIndexClientScoped
	if !clientScoped {
		q.Filter = []model.Condition{{Field: fields.WorkspaceID, Value: string(id.WorkspaceID)}}
	}

	return func(yield func(*model.Record, error) bool) {
		for rec, err := range u.store.Query(ctx, q) {
			if err != nil {
				yield(nil, err)
				return
			}
			if clientScoped && rec.Field(fields.WorkspaceID) != string(id.WorkspaceID) {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

type sideEffectFunc func(ctx context.Context, p *phase, rec *model.Record)

// deleteRecords deletes every record of the phase's category owned by the agent, one at a
// time as the scan proceeds. before runs ahead of each delete; its failures are warnings.
func (u *UseCase) deleteRecords(ctx context.Context, p *phase, id model.AgentIdentity, before sideEffectFunc) error {
	table := u.layout.Table(p.label)

	for rec, err := range u.scan(ctx, p.label, id) {
		if err != nil {
			return goerr.Wrap(err, "failed to scan records", goerr.V("table", table))
		}

		if before != nil {
			before(ctx, p, rec)
		}

		if err := u.store.DeleteIfExists(ctx, table, rec.Key); err != nil {
			return goerr.Wrap(err, "failed to delete record", goerr.V("table", table), goerr.V("key", rec.Key))
		}
		p.deleted++
	}

	return nil
}

func (u *UseCase) sideEffect(c model.Category, id model.AgentIdentity) sideEffectFunc {
	switch c {
	case model.CategoryConversations:
		return func(ctx context.Context, p *phase, rec *model.Record) {
			u.deleteConversationFiles(ctx, p, id, rec)
		}
	case model.CategoryBotIntegrations:
		return u.deregisterCommand
	default:
		return nil
	}
}

func (u *UseCase) deleteConversationFiles(ctx context.Context, p *phase, id model.AgentIdentity, rec *model.Record) {
	conv := model.NewConversation(rec, u.layout.Fields)
	keys := slices.Sorted(maps.Keys(ExtractFileKeys(conv.Messages, id.WorkspaceID)))
	if len(keys) == 0 {
		return
	}

	if u.objects == nil {
		p.warn("conversation files left in place", ErrCollaboratorNotConfigured,
			"conversation", rec.Key,
			"files", len(keys),
		)
		return
	}

	for _, key := range keys {
		if err := u.objects.DeleteObject(ctx, key); err != nil {
			p.warn("failed to delete conversation file", err,
				"conversation", rec.Key,
				"key", key,
			)
		}
	}
}

// deregisterCommand removes the slash command a Discord integration registered. The local
// record is deleted whatever the outcome.
func (u *UseCase) deregisterCommand(ctx context.Context, p *phase, rec *model.Record) {
	bot := model.NewBotIntegration(rec, u.layout.Fields)
	cfg := bot.RemoteCommand()
	if cfg == nil {
		return
	}

	if err := u.commands.DeregisterCommand(ctx, cfg.ApplicationID, cfg.Command.CommandID, cfg.BotToken); err != nil {
		p.warn("failed to deregister discord command", err,
			"integration", bot.Key,
			"application_id", cfg.ApplicationID,
			"command_id", cfg.Command.CommandID,
			"command_name", cfg.Command.CommandName,
		)
	}
}

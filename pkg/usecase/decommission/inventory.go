package decommission

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/m-mizutani/agentsweep/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// Inventory lists what RemoveAgentResources would delete from the document store and the
// object store, without changing anything. Collaborator-backed categories are not listed.
func (u *UseCase) Inventory(ctx context.Context, id model.AgentIdentity) (*model.Inventory, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	exists, err := u.exists(ctx, u.layout.AgentTable, id.Key())
	if err != nil {
		return nil, err
	}

	inv := &model.Inventory{
		Identity:    id,
		AgentExists: exists,
		Records:     make(map[model.Category]int),
	}
	blobs := make(map[string]struct{})

	for _, c := range model.Categories() {
		switch c.Lookup() {
		case model.LookupIndexFiltered, model.LookupIndexClientScoped:
			for rec, err := range u.scan(ctx, c, id) {
				if err != nil {
					return nil, goerr.Wrap(err, "failed to scan records", goerr.V("label", c))
				}
				inv.Records[c]++

				if c == model.CategoryConversations {
					conv := model.NewConversation(rec, u.layout.Fields)
					maps.Copy(blobs, ExtractFileKeys(conv.Messages, id.WorkspaceID))
				}
			}

		case model.LookupSingleKey:
			found, err := u.exists(ctx, u.layout.Table(c), id.Key())
			if err != nil {
				return nil, goerr.Wrap(err, "failed to look up record", goerr.V("label", c))
			}
			if found {
				inv.Records[c] = 1
			}
		}
	}

	inv.FileBlobKeys = slices.Sorted(maps.Keys(blobs))
	return inv, nil
}

func (u *UseCase) exists(ctx context.Context, table, key string) (bool, error) {
	if _, err := u.store.Get(ctx, table, key); err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get record", goerr.V("table", table), goerr.V("key", key))
	}
	return true, nil
}

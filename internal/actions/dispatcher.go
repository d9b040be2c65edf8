// Package actions maps record actions (the context-menu entries of the
// file views) to their effects.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/filedesk/backend/internal/events"
	"github.com/filedesk/backend/internal/logging"
	"github.com/filedesk/backend/internal/metrics"
	"github.com/filedesk/backend/internal/models"
	"github.com/filedesk/backend/internal/storage"
	"go.uber.org/zap"
)

// Action is a record action tag.
type Action string

const (
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
	ActionRename   Action = "rename"
	ActionShare    Action = "share"
	ActionCopy     Action = "copy"
	ActionFavorite Action = "favorite"
	ActionPreview  Action = "preview"
)

// ErrUnknownAction is returned for tags outside the action set.
var ErrUnknownAction = errors.New("unknown action")

// All lists every known action.
func All() []Action {
	return []Action{ActionDownload, ActionDelete, ActionRename, ActionShare, ActionCopy, ActionFavorite, ActionPreview}
}

// Parse validates an action tag.
func Parse(s string) (Action, error) {
	for _, a := range All() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Result describes what a dispatched action did.
type Result struct {
	Action  Action `json:"action"`
	ID      string `json:"id"`
	Mutated bool   `json:"mutated"`
	// Navigate is set by Open when the target is a folder.
	Navigate string `json:"navigate,omitempty"`
}

// Dispatcher routes actions to the store. Only delete mutates state; every
// other action is recorded and logged.
type Dispatcher struct {
	store     storage.Store
	publisher events.Publisher
	log       *zap.Logger
}

// NewDispatcher creates a dispatcher over store. publisher may be nil.
func NewDispatcher(store storage.Store, publisher events.Publisher) *Dispatcher {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Dispatcher{
		store:     store,
		publisher: publisher,
		log:       logging.Named("actions"),
	}
}

// Dispatch performs action on the record with the given id.
//
// Delete is idempotent: an unknown id is absorbed and reported with
// Mutated=false. The other actions need an existing target.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action, id string) (Result, error) {
	res := Result{Action: action, ID: id}

	switch action {
	case ActionDelete:
		removed, err := d.store.Remove(ctx, id)
		if err != nil {
			return res, fmt.Errorf("deleting %s: %w", id, err)
		}
		metrics.RecordAction(string(action))
		res.Mutated = removed
		if removed {
			d.log.Info("record deleted", zap.String("id", id))
			d.publisher.Publish(events.Event{Type: events.EventFileDeleted, ID: id})
		} else {
			d.log.Debug("delete of unknown record ignored", zap.String("id", id))
		}
		return res, nil

	case ActionDownload, ActionRename, ActionShare, ActionCopy, ActionFavorite, ActionPreview:
		rec, err := d.store.Get(ctx, id)
		if err != nil {
			return res, err
		}
		metrics.RecordAction(string(action))
		d.log.Info("record action", zap.String("action", string(action)),
			zap.String("id", id), zap.String("name", rec.Name))
		return res, nil

	default:
		d.log.Warn("unknown action", zap.String("action", string(action)), zap.String("id", id))
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// Open is the click on a record: folders navigate to their path, files
// are previewed.
func (d *Dispatcher) Open(ctx context.Context, id string) (Result, error) {
	rec, err := d.store.Get(ctx, id)
	if err != nil {
		return Result{ID: id}, err
	}
	if rec.Kind == models.KindFolder {
		return Result{ID: id, Navigate: rec.Path}, nil
	}
	return d.Dispatch(ctx, ActionPreview, id)
}

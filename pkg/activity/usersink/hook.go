// Package usersink records ficha activity through a go-users ActivitySink.
package usersink

import (
	"context"

	"github.com/goliatone/go-ficha/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook is an activity.Hook backed by a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
	// Actor is recorded when the event's actor id is not a UUID, e.g. an
	// operator name passed on the CLI.
	Actor uuid.UUID
}

func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.Normalize(event)
	if event.Verb == "" || event.ObjectID() == "" {
		return nil
	}
	return h.Sink.Log(ctx, h.record(event))
}

func (h Hook) record(event activity.Event) usertypes.ActivityRecord {
	actor, err := uuid.Parse(event.ActorID)
	if err != nil {
		actor = h.Actor
	}

	data := event.Metadata()
	if event.SessionID != "" {
		data["session_id"] = event.SessionID
	}
	if event.ActorID != "" && actor != uuid.Nil && actor.String() != event.ActorID {
		data["actor"] = event.ActorID
	}

	return usertypes.ActivityRecord{
		ActorID:    actor,
		Verb:       event.Verb,
		ObjectType: event.ObjectType(),
		ObjectID:   event.ObjectID(),
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}
}

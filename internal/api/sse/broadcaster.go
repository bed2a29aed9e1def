package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fireworks-games/hanabot/internal/model"
)

// Broadcaster turns engine events into SSE messages. Lobby events go to the
// lobby stream; game events go to that game's stream, with formation and
// ending mirrored to the lobby so waiting players see games open and close.
type Broadcaster struct {
	hubs   *HubManager
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubs *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{hubs: hubs, logger: logger}
}

// Publish implements the engine's event sink
func (b *Broadcaster) Publish(_ context.Context, event model.Event) {
	if b.hubs == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("failed to marshal event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	if event.GameID == "" {
		b.hubs.LobbyHub().BroadcastEvent(string(event.Type), string(data))
		return
	}

	b.hubs.GameHub(event.GameID).BroadcastEvent(string(event.Type), string(data))

	switch event.Type {
	case model.EventGameFormed, model.EventGameEnded:
		b.hubs.LobbyHub().BroadcastEvent(string(event.Type), string(data))
	}
}

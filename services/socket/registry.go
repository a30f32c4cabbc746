package socket

import (
	"sync"

	"go.uber.org/zap"
)

// Channel is a live, addressable push-delivery endpoint for one connected
// client instance.
type Channel interface {
	ID() string
	Send(event string, data any) error
}

// Registry tracks which participants currently have live push channels open.
// Purely in-memory; rebuilt from scratch as clients reconnect after a restart.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[string]Channel // participantID -> channelID -> channel
	logger   *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		channels: make(map[string]map[string]Channel),
		logger:   logger,
	}
}

// Add registers a channel for a participant.
func (r *Registry) Add(participantID string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[participantID]
	if !ok {
		set = make(map[string]Channel)
		r.channels[participantID] = set
	}
	set[ch.ID()] = ch
	r.logger.Debug("registered push channel",
		zap.String("participantId", participantID),
		zap.String("channelId", ch.ID()),
		zap.Int("channels", len(set)))
}

// Remove unregisters a channel; the participant entry disappears entirely
// once its last channel is gone.
func (r *Registry) Remove(participantID, channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[participantID]
	if !ok {
		return
	}
	delete(set, channelID)
	if len(set) == 0 {
		delete(r.channels, participantID)
	}
	r.logger.Debug("removed push channel",
		zap.String("participantId", participantID),
		zap.String("channelId", channelID),
		zap.Int("remaining", len(set)))
}

// Channels returns the participant's current live channels (empty if none).
func (r *Registry) Channels(participantID string) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.channels[participantID]
	out := make([]Channel, 0, len(set))
	for _, ch := range set {
		out = append(out, ch)
	}
	return out
}

// IsOnline reports whether the participant has at least one live channel.
func (r *Registry) IsOnline(participantID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[participantID]) > 0
}

// OnlineCount returns the number of participants with live channels.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// OnlineParticipants returns the IDs of all currently connected participants.
func (r *Registry) OnlineParticipants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.channels))
	for id := range r.channels {
		ids = append(ids, id)
	}
	return ids
}

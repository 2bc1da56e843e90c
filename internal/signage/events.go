package signage

import (
	"context"
	"encoding/json"
)

// publishEvent notifies screens and other subscribers over the shared
// broadcast channel. Best-effort: a nil client disables publishing and
// failures are only logged, matching the fire-and-forget notification
// contract.
func (s *Server) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(map[string]any{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("marshal event")
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Msg("publish event")
	}
}

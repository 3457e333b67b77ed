package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openwaves/openwaves-backend/internal/config"
	"github.com/openwaves/openwaves-backend/internal/websocket"
)

// MonitorService fans exam activity out to examiner monitor streams. Events
// go through Redis Pub/Sub so every server instance sees them; publishing is
// best-effort and never fails the triggering operation.
type MonitorService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(rdb *redis.Client, logger zerolog.Logger) *MonitorService {
	return &MonitorService{
		rdb: rdb,
		log: logger.With().Str("component", "monitor_service").Logger(),
	}
}

// Publish sends one event to the session's monitor channel.
func (s *MonitorService) Publish(ctx context.Context, event websocket.MonitorEvent) {
	raw, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal monitor event")
		return
	}
	channel := config.CacheKey.SessionMonitorChannel(event.SessionID)
	if err := s.rdb.Publish(ctx, channel, raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("publish monitor event")
	}
}

// Subscribe opens a Pub/Sub subscription on the session's monitor channel.
// The caller owns the returned subscription and must close it.
func (s *MonitorService) Subscribe(ctx context.Context, sessionID int) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.SessionMonitorChannel(sessionID))
}

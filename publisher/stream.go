// Package publisher fans recorded incidents out to Redis streams.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"go-ref-assist/logger"
	"go-ref-assist/models"
)

// StreamPrefix is prepended to the match id to form the stream key.
const StreamPrefix = "referee.incidents."

// streamAdder is the slice of the redis client we use.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher publishes incidents to a per-match Redis stream
type StreamPublisher struct {
	client streamAdder
	maxLen int64
}

// NewStreamPublisher creates a publisher. maxLen > 0 caps the stream
// length approximately.
func NewStreamPublisher(client streamAdder, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, maxLen: maxLen}
}

// StreamKey returns the stream an incident for matchID is written to.
func StreamKey(matchID string) string {
	return StreamPrefix + matchID
}

// PublishIncident appends inc to the match stream.
func (p *StreamPublisher) PublishIncident(ctx context.Context, matchID string, inc models.Incident) error {
	data, err := json.Marshal(inc)
	if err != nil {
		return fmt.Errorf("marshaling incident: %w", err)
	}

	streamKey := StreamKey(matchID)
	args := &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"data":        string(data),
			"incident_id": inc.ID,
			"card_type":   string(inc.CardType),
			"player_id":   inc.Player.ID,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", streamKey, err)
	}
	logger.Debug.Printf("[StreamPublisher.PublishIncident] incident %s -> %s (%s)", inc.ID, streamKey, id)
	return nil
}

// Connect opens a client and checks it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	logger.Info.Printf("[publisher.Connect] connected to redis at %s", addr)
	return client, nil
}

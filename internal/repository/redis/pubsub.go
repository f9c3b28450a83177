package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SpotsPubSub broadcasts occupancy changes so dashboards and other gates can
// refresh without polling.
type SpotsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewSpotsPubSub(rdb *redis.Client) *SpotsPubSub {
	return &SpotsPubSub{
		rdb:     rdb,
		channel: ChannelSpotsChanged(),
	}
}

type spotChangedMsg struct {
	Type     string `json:"type"`
	SpotID   string `json:"spot_id"`
	Occupied bool   `json:"occupied"`
	TsUnix   int64  `json:"ts_unix"`
}

func (p *SpotsPubSub) PublishSpotChanged(ctx context.Context, spotID string, occupied bool) error {
	msg := spotChangedMsg{
		Type:     "spot_changed",
		SpotID:   spotID,
		Occupied: occupied,
		TsUnix:   time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *SpotsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, spotID string, occupied bool)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev spotChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil && ev.SpotID != "" {
				handler(ctx, ev.SpotID, ev.Occupied)
			}
		}
	}
}

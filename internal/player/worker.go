package player

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// SubjectProgress carries progress ticks from the API to the durable
// consumer.
const SubjectProgress = "player.progress"

// Tick is the wire payload for one progress tick.
type Tick struct {
	UserID     string  `json:"user_id"`
	Identifier string  `json:"identifier"`
	Position   float64 `json:"position"`
	ClientTsMs int64   `json:"client_ts_ms"`
}

// TickSink is where the manager hands off tick persistence. With NATS
// configured the sink publishes to SubjectProgress and the consumer below
// does the database write; without it the manager writes directly.
type TickSink interface {
	WriteTick(ctx context.Context, t Tick) error
}

// NATSTickSink publishes ticks to JetStream, fire-and-forget.
type NATSTickSink struct {
	js nats.JetStreamContext
}

func NewNATSTickSink(js nats.JetStreamContext) *NATSTickSink {
	return &NATSTickSink{js: js}
}

func (s *NATSTickSink) WriteTick(ctx context.Context, t Tick) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.js.PublishAsync(SubjectProgress, data)
	return err
}

// StartProgressConsumer subscribes to SubjectProgress with a durable pull
// consumer and applies ticks to the persister in batches. The upsert is
// last-write-wins on the client timestamp, so redelivered messages are
// harmless and each message is acked independently.
func StartProgressConsumer(ctx context.Context, nc *nats.Conn, persister Persister, log *zap.Logger) {
	js, err := nc.JetStream()
	if err != nil {
		log.Error("progress consumer: jetstream", zap.Error(err))
		return
	}

	sub, err := js.PullSubscribe(SubjectProgress, "player_progress")
	if err != nil {
		log.Error("progress consumer: subscribe", zap.Error(err))
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			msgs, err := sub.Fetch(100, nats.MaxWait(2*time.Second))
			if err != nil {
				if err == nats.ErrTimeout {
					continue
				}
				log.Warn("progress consumer: fetch", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, m := range msgs {
				var t Tick
				if err := json.Unmarshal(m.Data, &t); err != nil {
					log.Warn("progress consumer: invalid payload", zap.Error(err))
					// poison message, never going to parse
					if err := m.Ack(); err != nil {
						log.Warn("progress consumer: ack", zap.Error(err))
					}
					continue
				}
				if err := persister.UpsertProgress(ctx, t.UserID, t.Identifier, t.Position, t.ClientTsMs); err != nil {
					log.Warn("progress consumer: upsert", zap.Error(err))
					if err := m.Nak(); err != nil {
						log.Warn("progress consumer: nak", zap.Error(err))
					}
					continue
				}
				if err := m.Ack(); err != nil {
					log.Warn("progress consumer: ack", zap.Error(err))
				}
			}
		}
	}()
}

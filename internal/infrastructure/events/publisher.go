package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendly/stockcore-api/internal/application/ledger"
	"github.com/vendly/stockcore-api/pkg/logger"
)

var _ ledger.EventPublisher = (*RedisPublisher)(nil)

// RedisPublisher publica eventos de commit del ledger por Redis pub/sub.
// Fire and forget: Publish encola en un buffer y vuelve de inmediato; con el
// buffer lleno el evento se descarta con un warn. Un consumidor lento o un
// Redis caído jamás bloquean ni revierten la escritura del ledger.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	queue   chan ledger.MovementCommitted
	done    chan struct{}
	log     *logger.Logger
}

// NewRedisPublisher construye el publicador y arranca el worker de envío.
func NewRedisPublisher(client *redis.Client, channel string, bufferSize int, log *logger.Logger) *RedisPublisher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	p := &RedisPublisher{
		client:  client,
		channel: channel,
		queue:   make(chan ledger.MovementCommitted, bufferSize),
		done:    make(chan struct{}),
		log:     log,
	}
	go p.run()
	return p
}

// Publish encola el evento sin bloquear. Con el buffer saturado descarta.
func (p *RedisPublisher) Publish(event ledger.MovementCommitted) {
	select {
	case p.queue <- event:
	default:
		p.log.Warn().
			Str("movement_id", event.MovementID).
			Str("product_id", event.ProductID).
			Msg("buffer de eventos saturado, evento descartado")
	}
}

// Close drena el buffer y detiene el worker.
func (p *RedisPublisher) Close() {
	close(p.queue)
	<-p.done
}

func (p *RedisPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		payload, err := json.Marshal(event)
		if err != nil {
			p.log.Error().Err(err).Msg("marshal de evento de movimiento")
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
			p.log.Warn().Err(err).
				Str("movement_id", event.MovementID).
				Msg("publicación de evento fallida, se descarta")
		}
		cancel()
	}
}

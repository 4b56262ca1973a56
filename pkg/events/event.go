package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types published after a successful mutation.
const (
	CitaCreada         = "cita.creada"
	CitaEstado         = "cita.estado"
	AtencionCreada     = "atencion.creada"
	HabitacionAsignada = "habitacion.asignada"
	HabitacionLiberada = "habitacion.liberada"
	PacienteEstado     = "paciente.estado"
)

// Event is the envelope sent to websocket clients and Kafka.
type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Entity   string    `json:"entity"`
	EntityID int64     `json:"entity_id"`
	Data     any       `json:"data,omitempty"`
	At       time.Time `json:"at"`
}

func New(eventType, entity string, id int64, data any) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     eventType,
		Entity:   entity,
		EntityID: id,
		Data:     data,
		At:       time.Now().UTC(),
	}
}

// Publisher delivers one event to a sink.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Emitter is what controllers depend on. Emit never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// Bus fans events out to every publisher in the background. Failures are only logged.
type Bus struct {
	publishers []Publisher
	log        zerolog.Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewBus(log zerolog.Logger, publishers ...Publisher) *Bus {
	return &Bus{publishers: publishers, log: log, timeout: 5 * time.Second}
}

func (b *Bus) Emit(ctx context.Context, ev Event) {
	if b == nil || len(b.publishers) == 0 {
		return
	}
	// the request context is cancelled as soon as the response is written
	ctx = context.WithoutCancel(ctx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for _, p := range b.publishers {
			pctx, cancel := context.WithTimeout(ctx, b.timeout)
			if err := p.Publish(pctx, ev); err != nil {
				b.log.Warn().Err(err).Str("event", ev.Type).Int64("entity_id", ev.EntityID).Msg("event publish failed")
			}
			cancel()
		}
	}()
}

// Wait blocks until in-flight emits are delivered; used on shutdown.
func (b *Bus) Wait() {
	if b != nil {
		b.wg.Wait()
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotificaciones = "jobs:notificaciones"
	QueueEmail          = "jobs:email"
)

// Job types.
const (
	JobVentaCreada = "venta_creada"
	JobTurnoCreado = "turno_creado"
	JobEmail       = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RefPayload points a notification job at the row it is about.
type RefPayload struct {
	ID int64 `json:"id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// NotificarVenta queues the "new sale" email (with PDF receipt).
func (d *Dispatcher) NotificarVenta(ctx context.Context, ventaID int64) error {
	return d.enqueue(ctx, QueueNotificaciones, JobVentaCreada, RefPayload{ID: ventaID})
}

// NotificarTurno queues the "new appointment" email to the shop.
func (d *Dispatcher) NotificarTurno(ctx context.Context, turnoID int64) error {
	return d.enqueue(ctx, QueueNotificaciones, JobTurnoCreado, RefPayload{ID: turnoID})
}

// EnviarEmail queues a plain email.
func (d *Dispatcher) EnviarEmail(ctx context.Context, to, subject, body string) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, EmailJobPayload{ToEmail: to, Subject: subject, Body: body})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// JobHandler processes the payload of one job type.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers holds the concrete handler for every job type.
type WorkerHandlers struct {
	Notificaciones *NotificacionWorker
	Email          *EmailWorker
}

func (h *WorkerHandlers) handlerFor(jobType string) JobHandler {
	if h == nil {
		return nil
	}
	switch jobType {
	case JobVentaCreada:
		if h.Notificaciones != nil {
			return JobHandlerFunc(h.Notificaciones.ProcessVenta)
		}
	case JobTurnoCreado:
		if h.Notificaciones != nil {
			return JobHandlerFunc(h.Notificaciones.ProcessTurno)
		}
	case JobEmail:
		if h.Email != nil {
			return h.Email
		}
	}
	return nil
}

// JobHandlerFunc adapts a function to JobHandler.
type JobHandlerFunc func(ctx context.Context, raw json.RawMessage) error

func (f JobHandlerFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
// The returned channel is closed once every worker has exited.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) <-chan struct{} {
	if numWorkers < 1 {
		numWorkers = 1
	}
	done := make(chan struct{})
	exited := make(chan struct{}, numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(id int) {
			runWorker(ctx, rdb, handlers, id)
			exited <- struct{}{}
		}(i)
	}
	go func() {
		for i := 0; i < numWorkers; i++ {
			<-exited
		}
		close(done)
	}()
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
	return done
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueNotificaciones, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// processJob runs one job. Failures are never retried: the job goes to the
// dead-letter list of its queue.
func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) error {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, "unknown", quoted, "invalid envelope: "+err.Error(), 0)
		return err
	}

	h := handlers.handlerFor(job.Type)
	if h == nil {
		err := fmt.Errorf("no handler for job type %q", job.Type)
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("unhandled job type")
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), 0)
		return err
	}

	start := time.Now()
	if err := h.Process(ctx, job.Payload); err != nil {
		log.Error().Err(err).Str("type", job.Type).Str("queue", queue).Msg("job failed")
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), 1)
		return err
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Dur("took", time.Since(start)).Msg("job processed")
	return nil
}

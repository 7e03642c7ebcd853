package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/api/metrics"
	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the record key, guaranteeing per-record ordering in the audit
// trail. Record never blocks the mutating request on audit persistence.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an audit event on the worker responsible for its record.
// When the worker channel is full the event is dropped with a log line
// rather than stalling the mutation that produced it.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	idx := d.shardIndex(event)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("kind", event.Kind).
			Int64("record_id", event.RecordID).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a record deterministically to a worker index.
func (d *Dispatcher) shardIndex(event domain.AuditEvent) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", event.Kind, event.RecordID)
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := d.repo.Insert(writeCtx, &event)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("kind", event.Kind).
					Int64("record_id", event.RecordID).
					Int("worker_id", id).
					Msg("audit write failed")
				continue
			}

			metrics.RecordMutationsTotal.WithLabelValues(event.Kind, string(event.Action)).Inc()
		}
	}
}

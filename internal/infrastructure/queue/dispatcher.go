package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
	"github.com/raylene/casework/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher persists notifications off the request path. Notifications are
// sharded by recipient with consistent hashing, so one user's notifications
// are stored in the order they were enqueued.
type Dispatcher struct {
	workers []chan *domain.Notification
	repo    ports.NotificationRepository
	log     zerolog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.NotificationRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *domain.Notification, numWorkers),
		repo:    repo,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Stop has drained their channels.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop refuses further notifications and waits for queued ones to be written.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Enqueue hands n to the worker responsible for its recipient. It never
// blocks: when that worker's buffer is full, or the dispatcher is stopped,
// the notification is dropped and logged.
func (d *Dispatcher) Enqueue(n *domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(n, "dispatcher stopped")
		return
	}
	idx := d.shardIndex(n.UserID)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.drop(n, "worker queue full")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.Notification) {
	defer d.wg.Done()
	depth := metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, n)
		}
	}
}

// deliver stores n. In-app notifications are delivered by being stored, so
// they are marked SENT right away; other channels stay PENDING for an
// external sender.
func (d *Dispatcher) deliver(ctx context.Context, workerID int, n *domain.Notification) {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now()
	}
	if n.Status == "" {
		n.Status = domain.NotificationPending
	}
	if n.Channel == domain.ChannelInApp {
		sent := d.now()
		n.Status = domain.NotificationSent
		n.SentAt = &sent
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := d.repo.Create(writeCtx, n); err != nil {
		metrics.NotificationsDispatchedTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("user_id", n.UserID).
			Str("template_code", n.TemplateCode).
			Int("worker_id", workerID).
			Msg("notification write failed")
		return
	}
	metrics.NotificationsDispatchedTotal.WithLabelValues("ok").Inc()
}

func (d *Dispatcher) drop(n *domain.Notification, reason string) {
	metrics.NotificationsDispatchedTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("user_id", n.UserID).
		Str("template_code", n.TemplateCode).
		Str("reason", reason).
		Msg("notification dropped")
}

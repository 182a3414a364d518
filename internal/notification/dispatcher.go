package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const sendTimeout = 30 * time.Second

type job struct {
	kind        string
	ap          models.Appointment
	cancelledBy string
}

// Dispatcher sends notifications from a background worker. Delivery is
// best effort: failures are logged and counted, never reported to callers.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
	queue    chan job
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(notifier Notifier, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		log:      log,
		queue:    make(chan job, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) AppointmentConfirmed(ap *models.Appointment) {
	d.enqueue(job{kind: KindConfirmation, ap: *ap})
}

func (d *Dispatcher) GuestConfirmationRequested(ap *models.Appointment) {
	d.enqueue(job{kind: KindGuestConfirm, ap: *ap})
}

func (d *Dispatcher) AppointmentCancelled(ap *models.Appointment, cancelledBy string) {
	d.enqueue(job{kind: KindCancellation, ap: *ap, cancelledBy: cancelledBy})
}

func (d *Dispatcher) AppointmentReminder(ap *models.Appointment) {
	d.enqueue(job{kind: KindReminder, ap: *ap})
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.NotificationsSent.WithLabelValues(j.kind, "dropped").Inc()
		d.log.Warn("notification dispatcher closed, dropping",
			zap.String("type", j.kind),
			zap.Uint("appointment_id", j.ap.ID),
		)
		return
	}

	select {
	case d.queue <- j:
	default:
		metrics.NotificationsSent.WithLabelValues(j.kind, "dropped").Inc()
		d.log.Warn("notification queue full, dropping",
			zap.String("type", j.kind),
			zap.Uint("appointment_id", j.ap.ID),
		)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	var err error
	switch j.kind {
	case KindConfirmation:
		err = d.notifier.SendAppointmentConfirmation(ctx, &j.ap)
	case KindGuestConfirm:
		err = d.notifier.SendGuestConfirmationRequest(ctx, &j.ap)
	case KindCancellation:
		err = d.notifier.SendAppointmentCancellation(ctx, &j.ap, j.cancelledBy)
	case KindReminder:
		err = d.notifier.SendAppointmentReminder(ctx, &j.ap)
	}

	if err != nil {
		metrics.NotificationsSent.WithLabelValues(j.kind, "failed").Inc()
		d.log.Error("notification failed",
			zap.String("type", j.kind),
			zap.Uint("appointment_id", j.ap.ID),
			zap.Error(err),
		)
		return
	}

	metrics.NotificationsSent.WithLabelValues(j.kind, "sent").Inc()
	d.log.Debug("notification sent",
		zap.String("type", j.kind),
		zap.Uint("appointment_id", j.ap.ID),
	)
}

// Close drains queued notifications. Later ones are dropped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

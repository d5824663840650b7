package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Refresher runs one refresh session.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type refreshWorker struct {
	refresher Refresher
	interval  time.Duration
	log       logrus.FieldLogger
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewRefreshWorker refreshes once immediately and then every interval.
// A zero interval refreshes only once.
func NewRefreshWorker(refresher Refresher, interval time.Duration, log logrus.FieldLogger) *refreshWorker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &refreshWorker{
		refresher: refresher,
		interval:  interval,
		log:       log,
		cancel:    cancel,
	}
	w.wg.Add(1)
	go w.loop(ctx)
	return w
}

// Shutdown cancels any refresh in flight and waits for the loop to exit.
func (w *refreshWorker) Shutdown() {
	w.cancel()
	w.wg.Wait()
	w.log.Info("refresh worker stopped")
}

func (w *refreshWorker) loop(ctx context.Context) {
	defer w.wg.Done()

	w.run(ctx)
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *refreshWorker) run(ctx context.Context) {
	err := w.refresher.Refresh(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrStaleRefresh):
		w.log.Debug("scheduled refresh superseded")
	case ctx.Err() != nil:
		w.log.Debug("scheduled refresh canceled")
	default:
		// The pipeline already reported the failure to its listener.
		w.log.WithError(err).Debug("scheduled refresh failed")
	}
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"daily-steps-service/internal/model"
	"daily-steps-service/internal/repository"
)

type BatchDeltaWorker interface {
	Enqueue(delta model.StepDelta)
	Shutdown()
}

type batchDeltaWorker struct {
	repo          repository.DeltaRepository
	queue         chan model.StepDelta
	batchSize     int
	flushInterval time.Duration
	log           logrus.FieldLogger
	wg            sync.WaitGroup
}

// NewBatchDeltaWorker starts a worker that writes queued deltas whenever
// batchSize is reached or flushInterval elapses.
func NewBatchDeltaWorker(repo repository.DeltaRepository, bufferSize int, batchSize int, interval time.Duration, log logrus.FieldLogger) *batchDeltaWorker {
	worker := &batchDeltaWorker{
		repo:          repo,
		queue:         make(chan model.StepDelta, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
		log:           log,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue blocks while the buffer is full.
func (w *batchDeltaWorker) Enqueue(delta model.StepDelta) {
	w.queue <- delta
}

// Shutdown stops accepting deltas and waits until the queue is drained.
func (w *batchDeltaWorker) Shutdown() {
	w.log.Info("delta worker shutting down, draining queue")
	close(w.queue)
	w.wg.Wait()
	w.log.Info("delta worker stopped")
}

func (w *batchDeltaWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.StepDelta
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case delta, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, delta)
			if len(batch) >= w.batchSize {
				w.log.WithField("batch_size", len(batch)).Debug("batch size reached")
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchDeltaWorker) bulkInsert(batch []model.StepDelta) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deltas := coalesceDeltas(batch)
	if merged := len(batch) - len(deltas); merged > 0 {
		w.log.WithField("merged", merged).Debug("coalesced repeated deltas")
	}

	if err := w.repo.CreateBatch(ctx, deltas); err != nil {
		w.log.WithError(err).WithField("deltas", len(deltas)).Error("bulk insert failed")
		return
	}
	w.log.WithFields(logrus.Fields{
		"deltas":  len(deltas),
		"backlog": len(w.queue),
	}).Debug("deltas flushed")
}

type deltaKey struct {
	source     string
	start, end int64
}

// coalesceDeltas keeps one delta per (source, start, end) in first-seen
// order. A resent interval replaces the earlier count.
func coalesceDeltas(deltas []model.StepDelta) []model.StepDelta {
	index := make(map[deltaKey]int, len(deltas))
	out := make([]model.StepDelta, 0, len(deltas))
	for _, d := range deltas {
		k := deltaKey{source: d.Source, start: d.Start.UnixNano(), end: d.End.UnixNano()}
		if i, ok := index[k]; ok {
			out[i] = d
			continue
		}
		index[k] = len(out)
		out = append(out, d)
	}
	return out
}

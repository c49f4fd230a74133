package dns

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go_gizmo/internal/model"
)

// WorkerConfig holds configuration for the pull worker
type WorkerConfig struct {
	Enabled     bool
	IntervalSec int
	Concurrency int // domains pulled in parallel
}

// PullWorker periodically imports the provider records of every managed domain
type PullWorker struct {
	ctx         context.Context
	cancel      context.CancelFunc
	service     *Service
	logger      *logrus.Entry
	config      WorkerConfig
	interval    time.Duration
	concurrency int
	startOnce   sync.Once
	done        chan struct{}
}

// NewPullWorker creates a pull worker; Start is a no-op when disabled
func NewPullWorker(service *Service, config WorkerConfig, logger *logrus.Entry) *PullWorker {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	ctx, cancel := context.WithCancel(context.Background())

	interval := time.Duration(config.IntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &PullWorker{
		ctx:         ctx,
		cancel:      cancel,
		service:     service,
		logger:      logger.WithField("component", "dns-pull-worker"),
		config:      config,
		interval:    interval,
		concurrency: concurrency,
		done:        make(chan struct{}),
	}
}

// Start begins the periodic pulls, running one immediately.
// Only the first call has an effect, and none after Stop.
func (w *PullWorker) Start() {
	w.startOnce.Do(w.start)
}

func (w *PullWorker) start() {
	if !w.config.Enabled {
		w.logger.Info("Pull worker disabled, not starting")
		close(w.done)
		return
	}

	w.logger.WithFields(logrus.Fields{
		"interval":    w.interval.String(),
		"concurrency": w.concurrency,
	}).Info("Starting pull worker")

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.tick()
		for {
			select {
			case <-ticker.C:
				w.tick()
			case <-w.ctx.Done():
				w.logger.Info("Pull worker stopped")
				return
			}
		}
	}()
}

// Stop cancels the worker and waits for the running tick to finish.
// It is safe without a prior Start and when called more than once.
func (w *PullWorker) Stop() {
	w.cancel()
	w.startOnce.Do(func() { close(w.done) })
	<-w.done
}

// PullStats summarizes one tick
type PullStats struct {
	Domains int
	Failed  int
	Created int
	Updated int
}

// tick pulls every domain once
func (w *PullWorker) tick() PullStats {
	var stats PullStats

	domains, err := w.service.Store().ListDomains(w.ctx)
	if err != nil {
		w.logger.WithError(err).Error("Failed to list domains")
		return stats
	}
	stats.Domains = len(domains)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, w.concurrency)
	)
	// after Stop, pulls fail fast on the cancelled context
	for _, domain := range domains {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(d model.Domain) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result, err := w.service.PullRecords(w.ctx, d.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				w.logger.WithError(err).WithField("domain", d.Domain).Warn("Pull failed")
				return
			}
			stats.Created += result.Created
			stats.Updated += result.Updated
		}(domain)
	}
	wg.Wait()

	w.logger.WithFields(logrus.Fields{
		"domains": stats.Domains,
		"failed":  stats.Failed,
		"created": stats.Created,
		"updated": stats.Updated,
	}).Info("Pull tick done")
	return stats
}

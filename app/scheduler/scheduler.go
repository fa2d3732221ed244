package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"hndigest/app/config"
)

// RunFunc generates and publishes the digest for one channel.
type RunFunc func(ctx context.Context, channel *config.Channel) error

// Scheduler triggers digest runs for every channel on a cron schedule. A
// channel whose previous run is still in flight is skipped for that tick.
type Scheduler struct {
	channels map[string]*config.Channel
	run      RunFunc
	cron     *cron.Cron

	mu      sync.Mutex
	running map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(channels map[string]*config.Channel, run RunFunc) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		channels: channels,
		run:      run,
		cron:     cron.New(),
		running:  make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the schedule and begins ticking in the background.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	slog.Info("Scheduler started", "schedule", schedule, "channels", len(s.channels))
	return nil
}

// Stop halts the cron loop and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) tick() {
	ids := make([]string, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		channel := s.channels[id]
		if !s.acquire(id) {
			slog.Warn("Previous digest run still in progress, skipping", "channel", id)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.release(channel.ID)

			if err := s.run(s.ctx, channel); err != nil {
				slog.Error("Scheduled digest run failed", "channel", channel.ID, "error", err)
			}
		}()
	}
}

func (s *Scheduler) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[id] {
		return false
	}
	s.running[id] = true
	return true
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
}

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"codeberg.org/snonux/translingo/internal/archive"
)

// Sweeper periodically moves orphaned artifacts out of the audio
// directory into its archive. The artifact currently shown to the user
// is never touched.
type Sweeper struct {
	dir       string
	retention time.Duration
	log       *zap.Logger
	cron      *cron.Cron

	mu   sync.Mutex
	keep string
}

// NewSweeper schedules a sweep of dir using a standard five-field cron
// expression
func NewSweeper(dir, schedule string, retention time.Duration, log *zap.Logger) (*Sweeper, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Sweeper{
		dir:       dir,
		retention: retention,
		log:       log,
		cron:      cron.New(),
	}
	s.cron.Schedule(sched, cron.FuncJob(func() {
		n, err := s.Sweep()
		if err != nil {
			s.log.Warn("artifact sweep failed", zap.String("dir", s.dir), zap.Error(err))
			return
		}
		if n > 0 {
			s.log.Info("archived orphaned artifacts", zap.String("dir", s.dir), zap.Int("count", n))
		}
	}))
	return s, nil
}

// Keep marks path as the current artifact
func (s *Sweeper) Keep(path string) {
	s.mu.Lock()
	s.keep = path
	s.mu.Unlock()
}

// Sweep archives every artifact older than the retention period except
// the kept one, and returns how many were moved
func (s *Sweeper) Sweep() (int, error) {
	s.mu.Lock()
	keep := s.keep
	s.mu.Unlock()
	return archive.ArchiveArtifacts(s.dir, keep, s.retention, Match)
}

// Start runs the schedule in the background
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tripnest/tripnest-backend/internal/auth/domain"
)

type LinkageAuditor interface {
	VerifyLinkage(ctx context.Context) (*domain.LinkageReport, error)
}

// Scheduler runs the profile linkage audit on a cron schedule (with seconds).
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	auditor  LinkageAuditor
	timeout  time.Duration
}

func NewScheduler(schedule string, auditor LinkageAuditor) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		schedule: schedule,
		auditor:  auditor,
		timeout:  time.Minute,
	}
}

// Start registers the audit and starts the cron loop in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			log.Printf("[audit] linkage audit failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid audit schedule %q: %w", s.schedule, err)
	}

	log.Printf("[audit] cron scheduler started (%s)", s.schedule)
	s.cron.Start()
	return nil
}

// Stop waits for a running audit to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce performs one audit and logs every sampled identity without a profile.
func (s *Scheduler) RunOnce(ctx context.Context) (*domain.LinkageReport, error) {
	log.Println("[audit] linkage audit started")

	report, err := s.auditor.VerifyLinkage(ctx)
	if err != nil {
		return nil, err
	}

	for _, r := range report.Results {
		switch {
		case r.Error != nil:
			log.Printf("[audit] %s: lookup failed: %s", r.AuthUser.ID, *r.Error)
		case !r.HasProfile:
			log.Printf("[audit] %s (%s) has no profile", r.AuthUser.ID, r.AuthUser.Email)
		}
	}

	log.Printf("[audit] linkage audit done: sampled=%d allLinked=%t at %s",
		len(report.Results), report.AllLinked, time.Now().Format(time.RFC1123))
	return report, nil
}

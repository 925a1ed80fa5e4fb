// AngelaMos | 2026
// scheduler.go

package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/breathnew/backend/internal/core"
	"github.com/breathnew/backend/internal/profile"
)

const (
	dailyInterval  = 24 * time.Hour
	weeklyInterval = 7 * 24 * time.Hour
)

// Due decides whether a reminder should fire. Pure: enabled profiles
// are due when they have never been notified or when the configured
// interval has elapsed since the last one.
func Due(p *profile.Profile, now time.Time) bool {
	if !p.NotificationsEnabled {
		return false
	}

	if p.LastNotificationDate == nil {
		return true
	}

	interval := dailyInterval
	if p.NotificationFrequency == profile.FrequencyWeekly {
		interval = weeklyInterval
	}

	return now.Sub(*p.LastNotificationDate) >= interval
}

// MotivationSource produces the reminder text. The coach manager backs
// this in production, with its own static fallback.
type MotivationSource interface {
	Motivation(ctx context.Context) (string, error)
}

type Notified interface {
	SetLastNotified(ctx context.Context, id string, at time.Time) error
}

// Scheduler periodically checks whether a reminder is due and emits it.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	profiles   *profile.Service
	repo       Notified
	motivation MotivationSource
	now        func() time.Time
}

func NewScheduler(
	profiles *profile.Service,
	repo Notified,
	motivation MotivationSource,
) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		profiles:   profiles,
		repo:       repo,
		motivation: motivation,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Scheduler) Start(checkInterval time.Duration) error {
	_, err := s.scheduler.Every(checkInterval).Do(s.check)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	slog.Info("reminder scheduler started", "interval", checkInterval)
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := s.profiles.Get(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.Error("reminder check: load profile", "error", err)
		}
		return
	}

	now := s.now()
	if !Due(p, now) {
		return
	}

	line, err := s.motivation.Motivation(ctx)
	if err != nil {
		slog.Error("reminder check: motivation", "error", err)
		return
	}

	// The reminder itself is delivered by whatever notification
	// surface wraps this process; the service's job ends at producing
	// the line and recording delivery.
	slog.Info("reminder",
		"name", p.Name,
		"frequency", p.NotificationFrequency,
		"text", line,
	)

	if err := s.repo.SetLastNotified(ctx, p.ID, now); err != nil {
		slog.Error("reminder check: record notification", "error", err)
	}
}

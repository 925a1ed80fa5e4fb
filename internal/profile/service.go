// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/breathnew/backend/internal/core"
)

// Wiper clears a feature's persisted state. Reset fans out to every
// registered wiper so the app returns to a clean onboarding state.
type Wiper interface {
	Wipe(ctx context.Context) error
}

type Service struct {
	repo   Repository
	wipers []Wiper
	now    func() time.Time
}

func NewService(repo Repository, wipers ...Wiper) *Service {
	return &Service{
		repo:   repo,
		wipers: wipers,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterWiper adds a reset participant after construction, for
// components that themselves depend on this service.
func (s *Service) RegisterWiper(w Wiper) {
	s.wipers = append(s.wipers, w)
}

func (s *Service) Onboard(
	ctx context.Context,
	req OnboardRequest,
) (*Profile, error) {
	if _, err := s.repo.Get(ctx); err == nil {
		return nil, fmt.Errorf("onboard: profile exists: %w", core.ErrConflict)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("onboard: %w", err)
	}

	quitDate := s.now()
	if req.QuitDate != nil {
		quitDate = req.QuitDate.UTC()
	}

	currency := req.Currency
	if currency == "" {
		currency = "$"
	}

	p := &Profile{
		ID:                    uuid.NewString(),
		Name:                  req.Name,
		QuitDate:              quitDate,
		CigarettesPerDay:      req.CigarettesPerDay.IntOr(DefaultCigarettesPerDay),
		CostPerPack:           req.CostPerPack.FloatOr(DefaultCostPerPack),
		CigarettesPerPack:     req.CigarettesPerPack.IntOr(DefaultCigarettesPerPack),
		Currency:              currency,
		IsPro:                 req.Pro,
		NotificationFrequency: FrequencyDaily,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("onboard: %w", core.ErrConflict)
		}
		return nil, fmt.Errorf("onboard: %w", err)
	}

	return s.repo.Get(ctx)
}

func (s *Service) Get(ctx context.Context) (*Profile, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(
	ctx context.Context,
	req UpdateRequest,
) (*Profile, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.CigarettesPerDay != nil {
		p.CigarettesPerDay = *req.CigarettesPerDay
	}
	if req.CostPerPack != nil {
		p.CostPerPack = *req.CostPerPack
	}
	if req.CigarettesPerPack != nil {
		p.CigarettesPerPack = *req.CigarettesPerPack
	}
	if req.Currency != nil {
		p.Currency = *req.Currency
	}
	if req.NotificationsEnabled != nil {
		p.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.NotificationFrequency != nil {
		p.NotificationFrequency = *req.NotificationFrequency
	}

	p.Normalize()

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return p, nil
}

// Reset deletes the profile and every feature's state so the next
// request starts from onboarding.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Wipe(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	for _, wiper := range s.wipers {
		if err := wiper.Wipe(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	return nil
}

// ResistCraving records one completed craving timer. Counts exactly one
// per call; the handler is only invoked when a timer runs to the end.
func (s *Service) ResistCraving(ctx context.Context) (int, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("resist craving: %w", err)
	}

	count, err := s.repo.IncrementCravings(ctx, p.ID)
	if err != nil {
		return 0, fmt.Errorf("resist craving: %w", err)
	}

	return count, nil
}

// SetPro flips the Pro entitlement. Only billing transitions call this;
// there are no silent upgrades or downgrades.
func (s *Service) SetPro(ctx context.Context, pro bool) (*Profile, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("set pro: %w", err)
	}

	if err := s.repo.SetPro(ctx, p.ID, pro); err != nil {
		return nil, fmt.Errorf("set pro: %w", err)
	}

	p.IsPro = pro
	return p, nil
}

func (s *Service) Stats(ctx context.Context) (*Profile, Stats, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("stats: %w", err)
	}

	return p, Derive(p, s.now()), nil
}

func (s *Service) Summary(ctx context.Context) (SummaryResponse, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("summary: %w", err)
	}

	now := s.now()
	stats := Derive(p, now)
	cigs, money := DailyRate(p)

	return SummaryResponse{
		Date:              now.Format("2006-01-02"),
		CigarettesAvoided: cigs,
		MoneySaved:        money,
		Currency:          p.Currency,
		DaysSmokeFree:     stats.DaysSmokeFree,
	}, nil
}

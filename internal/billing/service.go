// AngelaMos | 2026
// service.go

package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/breathnew/backend/internal/config"
	"github.com/breathnew/backend/internal/profile"
)

// Service drives the Pro upgrade in one of two modes. With a hosted
// checkout URL configured, BeginCheckout hands the caller that URL and
// the entitlement flips only when the checkout comes back successful.
// Without one, checkout is simulated: a fixed delay, then Pro.
type Service struct {
	profiles *profile.Service
	cfg      config.BillingConfig
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewService(profiles *profile.Service, cfg config.BillingConfig) *Service {
	return &Service{
		profiles: profiles,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
}

type CheckoutResult struct {
	Mode        string           `json:"mode"`
	CheckoutURL string           `json:"checkoutUrl,omitempty"`
	Profile     *profile.Profile `json:"profile,omitempty"`
}

func (s *Service) Hosted() bool {
	return s.cfg.CheckoutURL != ""
}

func (s *Service) BeginCheckout(ctx context.Context) (*CheckoutResult, error) {
	if s.Hosted() {
		return &CheckoutResult{
			Mode:        "hosted",
			CheckoutURL: s.cfg.CheckoutURL,
		}, nil
	}

	if err := s.sleep(ctx, s.cfg.SimulateDelay); err != nil {
		return nil, fmt.Errorf("simulated checkout: %w", err)
	}

	p, err := s.profiles.SetPro(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("simulated checkout: %w", err)
	}

	return &CheckoutResult{
		Mode:    "simulated",
		Profile: p,
	}, nil
}

// Confirm settles a hosted checkout from its redirect status. Anything
// other than an explicit success leaves the entitlement untouched.
func (s *Service) Confirm(
	ctx context.Context,
	status string,
) (*profile.Profile, bool, error) {
	if status != "success" {
		p, err := s.profiles.Get(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("confirm checkout: %w", err)
		}
		return p, false, nil
	}

	p, err := s.profiles.SetPro(ctx, true)
	if err != nil {
		return nil, false, fmt.Errorf("confirm checkout: %w", err)
	}

	return p, true, nil
}

func (s *Service) Cancel(ctx context.Context) (*profile.Profile, error) {
	p, err := s.profiles.SetPro(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}

	return p, nil
}

func (s *Service) PortalURL() string {
	return s.cfg.PortalURL
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

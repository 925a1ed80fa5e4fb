// AngelaMos | 2026
// service.go

package settings

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Language returns the persisted display language, defaulting to
// English when nothing has been chosen. Never fails: settings are a
// preference, not a dependency.
func (s *Service) Language(ctx context.Context) string {
	lang, err := s.repo.Get(ctx, KeyLanguage)
	if err != nil {
		return LanguageEN
	}
	if lang != LanguageEN && lang != LanguageZH {
		return LanguageEN
	}
	return lang
}

func (s *Service) All(ctx context.Context) (map[string]string, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	if _, ok := all[KeyLanguage]; !ok {
		all[KeyLanguage] = LanguageEN
	}
	if _, ok := all[KeyTheme]; !ok {
		all[KeyTheme] = "dark"
	}

	return all, nil
}

func (s *Service) Put(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		switch key {
		case KeyLanguage:
			if value != LanguageEN && value != LanguageZH {
				return fmt.Errorf(
					"language must be %q or %q",
					LanguageEN, LanguageZH,
				)
			}
		case KeyTheme:
		default:
			return fmt.Errorf("unknown setting %q", key)
		}
	}

	for key, value := range values {
		if err := s.repo.Set(ctx, key, value); err != nil {
			return err
		}
	}

	return nil
}

// Wipe lets the profile reset clear preferences alongside everything
// else.
func (s *Service) Wipe(ctx context.Context) error {
	return s.repo.Wipe(ctx)
}

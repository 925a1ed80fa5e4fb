// AngelaMos | 2026
// service.go

package tips

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var builtin = map[string][]string{
	"en": {
		"Take ten slow, deep breaths. The urge will pass in a few minutes.",
		"Drink a glass of cold water slowly, sip by sip.",
		"Go for a short walk, even just around the room.",
		"Keep your hands busy: squeeze a stress ball or doodle something.",
		"Chew sugar-free gum or snack on carrot sticks.",
		"Text or call someone who supports your quit.",
		"Remind yourself why you quit. Picture the money you are saving.",
		"Brush your teeth. A fresh mouth makes smoke less appealing.",
	},
	"zh": {
		"做十次缓慢的深呼吸，烟瘾几分钟内就会过去。",
		"慢慢地一小口一小口喝一杯凉水。",
		"出去散散步，哪怕只是在房间里走一走。",
		"让双手忙起来：捏压力球或随手涂鸦。",
		"嚼无糖口香糖，或吃点胡萝卜条。",
		"给支持你戒烟的人发消息或打电话。",
		"提醒自己为什么戒烟，想想省下来的钱。",
		"刷个牙，清新的口气会让烟变得没那么诱人。",
	},
}

type Service struct {
	repo Repository

	mu     sync.Mutex
	lastID string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Random picks one tip from the built-in list plus any custom tips for
// the language, avoiding the tip served immediately before.
func (s *Service) Random(ctx context.Context, language string) (Tip, error) {
	pool := make([]Tip, 0, len(builtin[language])+4)
	for i, text := range builtin[language] {
		pool = append(pool, Tip{
			ID:       fmt.Sprintf("builtin:%s:%d", language, i),
			Text:     text,
			Language: language,
		})
	}

	custom, err := s.repo.List(ctx, language)
	if err != nil {
		return Tip{}, err
	}
	pool = append(pool, custom...)

	if len(pool) == 0 {
		return Tip{}, fmt.Errorf("no tips for language %q", language)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // G404: tip selection is not security-sensitive
	tip := pool[rand.Intn(len(pool))]
	if len(pool) > 1 {
		for tip.ID == s.lastID {
			tip = pool[rand.Intn(len(pool))]
		}
	}
	s.lastID = tip.ID

	return tip, nil
}

func (s *Service) List(ctx context.Context, language string) ([]Tip, error) {
	return s.repo.List(ctx, language)
}

func (s *Service) Add(
	ctx context.Context,
	text, language string,
) (*Tip, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("tip text is empty")
	}

	tip := &Tip{
		ID:       uuid.NewString(),
		Text:     text,
		Language: language,
	}

	if err := s.repo.Create(ctx, tip); err != nil {
		return nil, err
	}

	return tip, nil
}

func (s *Service) Wipe(ctx context.Context) error {
	return s.repo.Wipe(ctx)
}

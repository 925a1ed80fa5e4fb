// AngelaMos | 2026
// session.go

package coach

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/breathnew/backend/internal/core"
	"github.com/breathnew/backend/internal/profile"
)

const (
	RoleUser  = "user"
	RoleCoach = "coach"
)

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Reported  bool      `json:"reported"`
	CreatedAt time.Time `json:"createdAt"`
}

// tagPattern strips anything that looks like markup from user input
// before it reaches the model or the transcript.
var tagPattern = regexp.MustCompile(`<[^>]*>?`)

func Sanitize(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// Generator produces a coach reply for the conversation so far.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type LanguageSource interface {
	Language(ctx context.Context) string
}

// undoSlot holds the single most recently deleted message. Restoring
// puts it back at its original position; after the window passes the
// slot is dead.
type undoSlot struct {
	message   Message
	index     int
	expiresAt time.Time
}

// Session is one coach conversation. It lives in memory: closing the
// app ends the conversation, which also resets the free message
// allowance.
type Session struct {
	mu        sync.Mutex
	messages  []Message
	used      int
	undo      *undoSlot
	system    string
	createdAt time.Time
}

// Manager owns the single active session and the policy knobs around
// it. Starting a new session discards the previous one.
type Manager struct {
	mu         sync.Mutex
	session    *Session
	generator  Generator
	profiles   *profile.Service
	lang       LanguageSource
	freeLimit  int
	undoWindow time.Duration
	now        func() time.Time
}

type ManagerConfig struct {
	Generator  Generator
	Profiles   *profile.Service
	Language   LanguageSource
	FreeLimit  int
	UndoWindow time.Duration
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		generator:  cfg.Generator,
		profiles:   cfg.Profiles,
		lang:       cfg.Language,
		freeLimit:  cfg.FreeLimit,
		undoWindow: cfg.UndoWindow,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the manager's clock. Test hook.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// StartSession builds a fresh conversation seeded with a greeting and a
// reset free-message allowance.
func (m *Manager) StartSession(ctx context.Context) ([]Message, error) {
	p, err := m.profiles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	lang := m.language(ctx)
	now := m.now()

	session := &Session{
		system:    systemPrompt(p, lang),
		createdAt: now,
		messages: []Message{
			{
				ID:        uuid.NewString(),
				Role:      RoleCoach,
				Text:      greeting(p.Name, lang),
				CreatedAt: now,
			},
		},
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	return session.snapshot(), nil
}

func (m *Manager) current() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, fmt.Errorf("coach session: %w", core.ErrNotFound)
	}
	return m.session, nil
}

func (m *Manager) Messages() ([]Message, error) {
	session, err := m.current()
	if err != nil {
		return nil, err
	}
	return session.snapshot(), nil
}

// Send accepts a user message and produces the coach reply.
//
// Ordering matters here: the quota gate runs before anything is stored,
// the counter moves once per accepted submission (retries inside the
// generator do not touch it), and the user's message stays in the
// conversation even when generation fails.
func (m *Manager) Send(ctx context.Context, text string) ([]Message, error) {
	session, err := m.current()
	if err != nil {
		return nil, err
	}

	text = Sanitize(text)
	if text == "" {
		return nil, fmt.Errorf("empty message: %w", core.ErrInvalidInput)
	}

	p, err := m.profiles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	session.mu.Lock()

	if !p.IsPro && session.used >= m.freeLimit {
		session.mu.Unlock()
		return nil, fmt.Errorf(
			"free message limit reached: %w",
			core.ErrUpgradeRequired,
		)
	}
	session.used++

	history := make([]Turn, 0, len(session.messages))
	for _, msg := range session.messages {
		history = append(history, Turn{
			FromUser: msg.Role == RoleUser,
			Text:     msg.Text,
		})
	}

	session.messages = append(session.messages, Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		CreatedAt: m.now(),
	})
	system := session.system
	session.mu.Unlock()

	reply, err := m.generator.Generate(ctx, GenerateRequest{
		System:  system,
		History: history,
		Text:    text,
	})
	if err != nil {
		return session.snapshot(), mapGenerateError(err)
	}

	session.mu.Lock()
	session.messages = append(session.messages, Message{
		ID:        uuid.NewString(),
		Role:      RoleCoach,
		Text:      strings.TrimSpace(reply),
		CreatedAt: m.now(),
	})
	session.mu.Unlock()

	return session.snapshot(), nil
}

// Delete removes a message and arms the undo slot. Deleting another
// message before the window passes overwrites the slot; only the last
// deletion is recoverable.
func (m *Manager) Delete(id string) ([]Message, error) {
	session, err := m.current()
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	for i, msg := range session.messages {
		if msg.ID != id {
			continue
		}

		session.undo = &undoSlot{
			message:   msg,
			index:     i,
			expiresAt: m.now().Add(m.undoWindow),
		}
		session.messages = append(
			session.messages[:i],
			session.messages[i+1:]...,
		)
		return session.snapshotLocked(), nil
	}

	return nil, fmt.Errorf("message %s: %w", id, core.ErrNotFound)
}

// Undo restores the last deleted message at its original position. An
// empty or expired slot is a no-op; the caller gets the unchanged
// conversation back.
func (m *Manager) Undo() ([]Message, bool, error) {
	session, err := m.current()
	if err != nil {
		return nil, false, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	slot := session.undo
	if slot == nil || m.now().After(slot.expiresAt) {
		session.undo = nil
		return session.snapshotLocked(), false, nil
	}

	index := slot.index
	if index > len(session.messages) {
		index = len(session.messages)
	}

	session.messages = append(session.messages, Message{})
	copy(session.messages[index+1:], session.messages[index:])
	session.messages[index] = slot.message
	session.undo = nil

	return session.snapshotLocked(), true, nil
}

// Transcript renders the conversation for sharing.
func (m *Manager) Transcript(ctx context.Context) (string, error) {
	session, err := m.current()
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	lines := make([]string, 0, len(session.messages))
	for _, msg := range session.messages {
		speaker := "Coach"
		if msg.Role == RoleUser {
			speaker = "Me"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Text))
	}

	return strings.Join(lines, "\n"), nil
}

// Find returns a message by ID from the active session.
func (m *Manager) Find(id string) (Message, error) {
	session, err := m.current()
	if err != nil {
		return Message{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	for _, msg := range session.messages {
		if msg.ID == id {
			return msg, nil
		}
	}

	return Message{}, fmt.Errorf("message %s: %w", id, core.ErrNotFound)
}

// MarkReported flags a message once its report is filed. The message
// stays in the conversation; the flag is the only visible effect.
func (m *Manager) MarkReported(id string) error {
	session, err := m.current()
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	for i := range session.messages {
		if session.messages[i].ID == id {
			session.messages[i].Reported = true
			return nil
		}
	}

	return fmt.Errorf("message %s: %w", id, core.ErrNotFound)
}

// Motivation produces a one-line encouragement, falling back to a
// static quote when the assistant is unavailable for any reason.
func (m *Manager) Motivation(ctx context.Context) (string, error) {
	lang := m.language(ctx)

	prompt := "Write one short, warm sentence encouraging someone who " +
		"quit smoking to keep going. No preamble, no quotes."
	if lang == "zh" {
		prompt = "用一句简短温暖的话鼓励正在戒烟的人坚持下去。" +
			"不要任何开场白或引号。"
	}

	line, err := m.generator.Generate(ctx, GenerateRequest{Text: prompt})
	if err != nil {
		return fallbackQuote(lang, m.now()), nil
	}

	line = strings.TrimSpace(line)
	if line == "" || line == "..." {
		return fallbackQuote(lang, m.now()), nil
	}

	return line, nil
}

// Wipe drops the active session so a profile reset also ends the
// conversation.
func (m *Manager) Wipe(_ context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}

func (m *Manager) language(ctx context.Context) string {
	if m.lang == nil {
		return "en"
	}
	if lang := m.lang.Language(ctx); lang != "" {
		return lang
	}
	return "en"
}

func (s *Session) snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// mapGenerateError translates client failures into the wire taxonomy:
// missing key is a configuration problem, everything else is the
// upstream being unavailable.
func mapGenerateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrNotConfigured) {
		return core.AINotConfiguredError(
			"the AI coach needs an API key before it can chat",
		)
	}

	if IsQuotaError(err) {
		return core.AIUnavailableError(QuotaMessage)
	}

	return core.AIUnavailableError(
		"the coach could not answer right now, please try again",
	)
}

func systemPrompt(p *profile.Profile, lang string) string {
	var b strings.Builder

	b.WriteString("You are a warm, encouraging quit-smoking coach. ")
	b.WriteString("Keep replies short (2-4 sentences), practical, and ")
	b.WriteString("never judgmental. Never suggest smoking in any form.\n")

	fmt.Fprintf(&b, "The user's name is %s. ", p.Name)
	fmt.Fprintf(
		&b,
		"They quit on %s. ",
		p.QuitDate.Format("January 2, 2006"),
	)
	fmt.Fprintf(
		&b,
		"A pack costs them %s%.2f and they smoked %d cigarettes a day.\n",
		p.Currency,
		p.CostPerPack,
		p.CigarettesPerDay,
	)

	if lang == "zh" {
		b.WriteString("Always reply in Simplified Chinese.")
	} else {
		b.WriteString("Always reply in English.")
	}

	return b.String()
}

func greeting(name, lang string) string {
	if lang == "zh" {
		return fmt.Sprintf(
			"你好，%s！我是你的戒烟教练。今天感觉怎么样？",
			name,
		)
	}
	return fmt.Sprintf(
		"Hi %s! I'm your quit coach. How are you feeling today?",
		name,
	)
}

var fallbackQuotes = map[string][]string{
	"en": {
		"Every craving you outlast makes the next one weaker.",
		"Your lungs are healing a little more every single hour.",
		"You didn't come this far to only come this far.",
		"One day at a time is all it ever takes.",
	},
	"zh": {
		"每熬过一次烟瘾，下一次就会更容易。",
		"你的肺每一个小时都在慢慢修复。",
		"走到今天这一步，别轻易放弃。",
		"一天一天来，坚持就是胜利。",
	},
}

func fallbackQuote(lang string, now time.Time) string {
	quotes, ok := fallbackQuotes[lang]
	if !ok {
		quotes = fallbackQuotes["en"]
	}
	return quotes[now.Unix()%int64(len(quotes))]
}


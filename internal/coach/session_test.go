// AngelaMos | 2026
// session_test.go

package coach

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/breathnew/backend/internal/core"
	"github.com/breathnew/backend/internal/profile"
)

type fakeGenerator struct {
	calls int
	reply string
	err   error
}

func (f *fakeGenerator) Generate(
	_ context.Context,
	_ GenerateRequest,
) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type staticLang string

func (l staticLang) Language(context.Context) string { return string(l) }

func newTestProfiles(t *testing.T, pro bool) *profile.Service {
	t.Helper()

	db := sqlx.MustConnect("sqlite3", ":memory:")
	t.Cleanup(func() {
		_ = db.Close() //nolint:errcheck // test cleanup
	})
	require.NoError(t, core.Migrate(context.Background(), db))

	svc := profile.NewService(profile.NewRepository(db))
	_, err := svc.Onboard(context.Background(), profile.OnboardRequest{
		Name: "Alex",
		Pro:  pro,
	})
	require.NoError(t, err)

	return svc
}

func newTestManager(
	t *testing.T,
	gen Generator,
	pro bool,
) *Manager {
	t.Helper()

	m := NewManager(ManagerConfig{
		Generator:  gen,
		Profiles:   newTestProfiles(t, pro),
		Language:   staticLang("en"),
		FreeLimit:  3,
		UndoWindow: 4 * time.Second,
	})

	_, err := m.StartSession(context.Background())
	require.NoError(t, err)

	return m
}

func TestStartSessionSeedsGreeting(t *testing.T) {
	m := newTestManager(t, &fakeGenerator{reply: "hi"}, false)

	messages, err := m.Messages()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, RoleCoach, messages[0].Role)
	require.Contains(t, messages[0].Text, "Alex")
}

func TestSendAppendsUserAndCoach(t *testing.T) {
	gen := &fakeGenerator{reply: "You can do this."}
	m := newTestManager(t, gen, false)

	messages, err := m.Send(context.Background(), "I want to smoke")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, RoleUser, messages[1].Role)
	require.Equal(t, "I want to smoke", messages[1].Text)
	require.Equal(t, RoleCoach, messages[2].Role)
	require.Equal(t, "You can do this.", messages[2].Text)
	require.Equal(t, 1, gen.calls)
}

func TestFreeLimitGate(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	m := newTestManager(t, gen, false)

	for i := 0; i < 3; i++ {
		_, err := m.Send(context.Background(), fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	_, err := m.Send(context.Background(), "one more")
	require.ErrorIs(t, err, core.ErrUpgradeRequired)

	// The refused submission never reached the generator and never
	// entered the conversation.
	require.Equal(t, 3, gen.calls)
	messages, err := m.Messages()
	require.NoError(t, err)
	require.Len(t, messages, 7)
}

func TestProHasNoLimit(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	m := newTestManager(t, gen, true)

	for i := 0; i < 6; i++ {
		_, err := m.Send(context.Background(), fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	require.Equal(t, 6, gen.calls)
}

func TestNewSessionResetsAllowance(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	m := newTestManager(t, gen, false)

	for i := 0; i < 3; i++ {
		_, err := m.Send(context.Background(), "hello")
		require.NoError(t, err)
	}
	_, err := m.Send(context.Background(), "blocked")
	require.ErrorIs(t, err, core.ErrUpgradeRequired)

	_, err = m.StartSession(context.Background())
	require.NoError(t, err)

	_, err = m.Send(context.Background(), "fresh start")
	require.NoError(t, err)
}

func TestUserMessageSurvivesGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream down")}
	m := newTestManager(t, gen, false)

	_, err := m.Send(context.Background(), "are you there?")
	require.Error(t, err)

	messages, merr := m.Messages()
	require.NoError(t, merr)
	require.Len(t, messages, 2)
	require.Equal(t, RoleUser, messages[1].Role)
	require.Equal(t, "are you there?", messages[1].Text)
}

func TestSendRejectsEmptyAfterSanitize(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	m := newTestManager(t, gen, false)

	_, err := m.Send(context.Background(), "<b></b>  ")
	require.ErrorIs(t, err, core.ErrInvalidInput)
	require.Zero(t, gen.calls)
}

func TestDeleteAndUndoRestoresAtIndex(t *testing.T) {
	gen := &fakeGenerator{reply: "reply"}
	m := newTestManager(t, gen, false)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return base })

	messages, err := m.Send(context.Background(), "first")
	require.NoError(t, err)
	require.Len(t, messages, 3)

	deleted := messages[1]
	messages, err = m.Delete(deleted.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	m.SetClock(func() time.Time { return base.Add(2 * time.Second) })

	messages, restored, err := m.Undo()
	require.NoError(t, err)
	require.True(t, restored)
	require.Len(t, messages, 3)
	require.Equal(t, deleted.ID, messages[1].ID)
	require.Equal(t, "first", messages[1].Text)
}

func TestUndoAfterWindowIsNoop(t *testing.T) {
	gen := &fakeGenerator{reply: "reply"}
	m := newTestManager(t, gen, false)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.SetClock(func() time.Time { return base })

	messages, err := m.Send(context.Background(), "gone forever")
	require.NoError(t, err)

	_, err = m.Delete(messages[1].ID)
	require.NoError(t, err)

	m.SetClock(func() time.Time { return base.Add(5 * time.Second) })

	messages, restored, err := m.Undo()
	require.NoError(t, err)
	require.False(t, restored)
	require.Len(t, messages, 2)

	// The slot is consumed; a second undo stays a no-op.
	_, restored, err = m.Undo()
	require.NoError(t, err)
	require.False(t, restored)
}

func TestUndoWithoutDeleteIsNoop(t *testing.T) {
	m := newTestManager(t, &fakeGenerator{reply: "ok"}, false)

	messages, restored, err := m.Undo()
	require.NoError(t, err)
	require.False(t, restored)
	require.Len(t, messages, 1)
}

func TestMarkReportedFlagsWithoutRemoving(t *testing.T) {
	gen := &fakeGenerator{reply: "something off"}
	m := newTestManager(t, gen, false)

	messages, err := m.Send(context.Background(), "hello")
	require.NoError(t, err)
	reported := messages[2]

	require.NoError(t, m.MarkReported(reported.ID))

	messages, err = m.Messages()
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for _, msg := range messages {
		if msg.ID == reported.ID {
			require.True(t, msg.Reported)
			require.Equal(t, "something off", msg.Text)
		} else {
			require.False(t, msg.Reported)
		}
	}

	require.ErrorIs(t, m.MarkReported("no-such-message"), core.ErrNotFound)
}

func TestTranscript(t *testing.T) {
	gen := &fakeGenerator{reply: "Proud of you."}
	m := newTestManager(t, gen, false)

	_, err := m.Send(context.Background(), "Day three!")
	require.NoError(t, err)

	transcript, err := m.Transcript(context.Background())
	require.NoError(t, err)

	require.Contains(t, transcript, "Coach: ")
	require.Contains(t, transcript, "Me: Day three!")
	require.Contains(t, transcript, "Coach: Proud of you.")
}

func TestMotivationFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"generator error", &fakeGenerator{err: errors.New("down")}},
		{"empty reply", &fakeGenerator{reply: ""}},
		{"ellipsis placeholder", &fakeGenerator{reply: "..."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t, tt.gen, false)

			line, err := m.Motivation(context.Background())
			require.NoError(t, err)
			require.NotEmpty(t, line)
			require.NotEqual(t, "...", line)
		})
	}
}

func TestMotivationUsesGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "Keep going, Alex."}
	m := newTestManager(t, gen, false)

	line, err := m.Motivation(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Keep going, Alex.", line)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>hi", "alert(1)hi"},
		{"dangling <unclosed", "dangling"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Sanitize(tt.in))
	}
}

func TestOperationsWithoutSession(t *testing.T) {
	m := NewManager(ManagerConfig{
		Generator: &fakeGenerator{},
		Profiles:  newTestProfiles(t, false),
		Language:  staticLang("en"),
		FreeLimit: 3,
	})

	_, err := m.Messages()
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = m.Send(context.Background(), "hello")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, _, err = m.Undo()
	require.ErrorIs(t, err, core.ErrNotFound)
}

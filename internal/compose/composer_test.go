package compose

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/teleclone/internal/bus"
	"github.com/matheus3301/teleclone/internal/convo"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/schedule"
	"github.com/matheus3301/teleclone/internal/store"
)

type fakeAssistant struct {
	mu       sync.Mutex
	requests []model.ChatRequest
	reply    string
	err      error
}

func (f *fakeAssistant) Chat(_ context.Context, req model.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

type fixture struct {
	store     *convo.Store
	composer  *Composer
	assistant *fakeAssistant
	clock     *schedule.ManualClock
	bus       *bus.Bus
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	db, _, err := store.OpenMigrated(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b := bus.New()
	s := convo.New(db, b, nil)
	if _, err := s.Bootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	clock := schedule.NewManualClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	a := &fakeAssistant{reply: "sup 😎"}
	c := New(s, a, schedule.New(clock), b, nil, opts)

	var n int
	c.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(c.Close)
	return &fixture{store: s, composer: c, assistant: a, clock: clock, bus: b}
}

func TestSendTextBlankIsNoop(t *testing.T) {
	f := newFixture(t, Options{SimulateReplies: true})
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t"} {
		res, err := f.composer.SendText(ctx, "2", text)
		if err != nil {
			t.Fatalf("SendText(%q) error = %v", text, err)
		}
		if res.Sent() {
			t.Errorf("SendText(%q) reported a send", text)
		}
	}
	if got := f.store.Read(ctx, "2"); len(got) != 0 {
		t.Errorf("store has %d messages, want 0", len(got))
	}
	if f.clock.Pending() != 0 {
		t.Error("blank send scheduled a reply")
	}
}

func TestSendTextBuildsMessage(t *testing.T) {
	f := newFixture(t, Options{})
	res, err := f.composer.SendText(context.Background(), "2", "hi there")
	if err != nil {
		t.Fatal(err)
	}
	m := res.Message
	if m.ID != "id-1" || m.ChatID != "2" || m.SenderID != model.LocalUserID {
		t.Errorf("message = %+v", m)
	}
	if !m.IsSelf || m.Status != model.StatusSent || m.Body() != "hi there" {
		t.Errorf("message = %+v", m)
	}
	if m.Timestamp != f.clock.Now().UnixMilli() {
		t.Errorf("timestamp = %d, want clock time", m.Timestamp)
	}
	if m.IsVoice || m.Image != nil || m.ReplyToID != nil {
		t.Errorf("optional fields set: %+v", m)
	}
}

func TestSendTextAssistantAppendsReplyAfterUser(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	res, err := f.composer.SendText(ctx, model.AssistantChatID, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply == nil || res.Reply.Body() != "sup 😎" {
		t.Fatalf("Reply = %+v", res.Reply)
	}

	got := f.store.Read(ctx, model.AssistantChatID)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].IsSelf || got[0].Body() != "hi" {
		t.Errorf("first = %+v, want user message", got[0])
	}
	reply := got[1]
	if reply.IsSelf || reply.SenderID != model.AssistantUserID || reply.Status != model.StatusRead {
		t.Errorf("second = %+v, want assistant reply", reply)
	}

	req := f.assistant.requests[0]
	if req.Prompt == nil || *req.Prompt != "hi" || len(req.History) != 0 {
		t.Errorf("request = %+v, want prompt hi with no history", req)
	}
}

func TestSendTextAssistantFailureAppendsNothing(t *testing.T) {
	f := newFixture(t, Options{})
	f.assistant.err = errors.New("boom")
	ctx := context.Background()

	res, err := f.composer.SendText(ctx, model.AssistantChatID, "hi")
	if !errors.Is(err, ErrAssistantUnavailable) {
		t.Fatalf("SendText() error = %v, want ErrAssistantUnavailable", err)
	}
	if !res.Sent() || res.Reply != nil {
		t.Errorf("Result = %+v, want user message only", res)
	}
	if got := f.store.Read(ctx, model.AssistantChatID); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestHistoryIsBoundedPriorMessages(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if _, err := f.composer.SendText(ctx, model.AssistantChatID, fmt.Sprint("msg ", i)); err != nil {
			t.Fatal(err)
		}
	}
	// Each send adds two messages, so prior counts are 0, 2, 4, ... 14.
	for i, req := range f.assistant.requests {
		prior := 2 * i
		if want := min(model.MaxHistory, prior); len(req.History) != want {
			t.Errorf("request %d history = %d, want %d", i, len(req.History), want)
		}
		if len(req.History) > 0 {
			last := req.History[len(req.History)-1]
			if last.Role != model.RoleModel || last.Parts != "sup 😎" {
				t.Errorf("request %d last history = %+v, want previous reply", i, last)
			}
		}
	}
}

func TestAssistantTypingBrackets(t *testing.T) {
	f := newFixture(t, Options{})
	events, unsubscribe := f.bus.Subscribe(bus.ChatTyping, 8)
	defer unsubscribe()

	if _, err := f.composer.SendText(context.Background(), model.AssistantChatID, "hi"); err != nil {
		t.Fatal(err)
	}
	var states []bool
	for len(states) < 2 {
		select {
		case ev := <-events:
			states = append(states, ev.Payload.(bus.Typing).Active)
		case <-time.After(time.Second):
			t.Fatalf("typing events = %v, want [true false]", states)
		}
	}
	if !states[0] || states[1] {
		t.Errorf("typing events = %v, want [true false]", states)
	}
}

func TestSimulatedReplyEveryThird(t *testing.T) {
	f := newFixture(t, Options{SimulateReplies: true})
	ctx := context.Background()

	// Prior count 0: schedules a reply.
	if _, err := f.composer.SendText(ctx, "2", "one"); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(time.Second)
	if got := f.store.Read(ctx, "2"); len(got) != 1 {
		t.Fatalf("reply arrived after typing delay only: %d messages", len(got))
	}
	f.clock.Advance(2 * time.Second)
	got := f.store.Read(ctx, "2")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].SenderID != "user2" || got[1].Body() != SimulatedReply || got[1].IsSelf {
		t.Errorf("reply = %+v", got[1])
	}

	// Prior counts 2 and 3: only the second schedules.
	if _, err := f.composer.SendText(ctx, "2", "two"); err != nil {
		t.Fatal(err)
	}
	if f.clock.Pending() != 0 {
		t.Error("prior count 2 scheduled a reply")
	}
	if _, err := f.composer.SendVoice(ctx, "2", 4); err != nil {
		t.Fatal(err)
	}
	if f.clock.Pending() != 1 {
		t.Errorf("pending = %d after prior count 3, want 1", f.clock.Pending())
	}
}

func TestCancelPendingDropsReply(t *testing.T) {
	f := newFixture(t, Options{SimulateReplies: true})
	ctx := context.Background()

	if _, err := f.composer.SendText(ctx, "3", "hello"); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(time.Second)
	if n := f.composer.CancelPending("3"); n != 1 {
		t.Errorf("CancelPending() = %d, want 1", n)
	}
	f.clock.Advance(time.Minute)
	if got := f.store.Read(ctx, "3"); len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestSendVoice(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	if _, err := f.composer.SendVoice(ctx, "2", 0); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("SendVoice(0) error = %v, want ErrInvalidDuration", err)
	}
	res, err := f.composer.SendVoice(ctx, "2", 12)
	if err != nil {
		t.Fatal(err)
	}
	m := res.Message
	if !m.IsVoice || m.VoiceDuration == nil || *m.VoiceDuration != 12 || m.Body() != "" {
		t.Errorf("voice message = %+v", m)
	}
	if chat, _ := f.store.Chat(ctx, "2"); chat.LastMessage != "Voice message" {
		t.Errorf("preview = %q, want Voice message", chat.LastMessage)
	}
}

func TestSendUnknownChat(t *testing.T) {
	f := newFixture(t, Options{})
	if _, err := f.composer.SendText(context.Background(), "nope", "hi"); !errors.Is(err, convo.ErrUnknownChat) {
		t.Errorf("SendText() error = %v, want ErrUnknownChat", err)
	}
}

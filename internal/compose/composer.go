// Package compose turns user input into messages, appends them to the
// conversation store and drives the assistant and simulated replies.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/teleclone/internal/bus"
	"github.com/matheus3301/teleclone/internal/convo"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/schedule"
	"go.uber.org/zap"
)

// Canned counterpart reply and its timing.
const (
	SimulatedReply      = "That sounds interesting! Tell me more about it."
	simulatedTypingWait = time.Second
	simulatedReplyWait  = 2 * time.Second
	simulateEvery       = 3
)

var (
	// ErrAssistantUnavailable wraps any failure of the assistant round-trip.
	ErrAssistantUnavailable = errors.New("assistant unavailable")
	// ErrInvalidDuration is returned by SendVoice for non-positive durations.
	ErrInvalidDuration = errors.New("voice duration must be positive")
)

// Assistant generates a reply for a prompt and its history.
type Assistant interface {
	Chat(ctx context.Context, req model.ChatRequest) (string, error)
}

// Options configures a Composer.
type Options struct {
	// SimulateReplies enables the canned counterpart reply on non-assistant chats.
	SimulateReplies bool
}

// Result describes what a send appended.
type Result struct {
	Message model.Message
	// Reply is the assistant answer, set only for the assistant chat on success.
	Reply *model.Message
}

// Sent reports whether anything was appended.
func (r Result) Sent() bool { return r.Message.ID != "" }

// Composer builds and sends messages for the local user.
type Composer struct {
	store     *convo.Store
	assistant Assistant
	sched     *schedule.Scheduler
	bus       *bus.Bus
	logger    *zap.Logger
	opts      Options

	now   func() time.Time
	newID func() string
}

// New creates a composer. sched may be nil when simulated replies are disabled.
func New(store *convo.Store, assistant Assistant, sched *schedule.Scheduler, b *bus.Bus, logger *zap.Logger, opts Options) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sched == nil {
		sched = schedule.New(nil)
	}
	return &Composer{
		store:     store,
		assistant: assistant,
		sched:     sched,
		bus:       b,
		logger:    logger,
		opts:      opts,
		now:       sched.Now,
		newID:     uuid.NewString,
	}
}

// SendText appends text to chatID. Blank text is ignored. On the assistant
// chat it then waits for the assistant and appends its reply; an assistant
// failure leaves only the user message and returns ErrAssistantUnavailable.
func (c *Composer) SendText(ctx context.Context, chatID, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, nil
	}
	msg := c.outgoing(chatID)
	msg.Text = &text
	return c.send(ctx, msg)
}

// SendVoice appends a voice message of the given duration to chatID.
func (c *Composer) SendVoice(ctx context.Context, chatID string, seconds int) (Result, error) {
	if seconds <= 0 {
		return Result{}, ErrInvalidDuration
	}
	msg := c.outgoing(chatID)
	msg.Text = model.StringPtr("")
	msg.IsVoice = true
	msg.VoiceDuration = &seconds

	list, err := c.store.Append(ctx, chatID, msg)
	if err != nil {
		return Result{}, err
	}
	c.logger.Info("voice message sent", zap.String("chat_id", chatID), zap.Int("seconds", seconds))
	c.maybeSimulate(ctx, chatID, len(list)-1)
	return Result{Message: msg}, nil
}

// CancelPending drops any simulated reply scheduled for chatID.
func (c *Composer) CancelPending(chatID string) int {
	n := c.sched.Cancel(chatID)
	if n > 0 {
		c.typing(chatID, "", false)
	}
	return n
}

// Close cancels all scheduled work.
func (c *Composer) Close() {
	c.sched.Close()
}

func (c *Composer) outgoing(chatID string) model.Message {
	return model.Message{
		ID:        c.newID(),
		ChatID:    chatID,
		SenderID:  model.LocalUserID,
		Timestamp: c.now().UnixMilli(),
		Status:    model.StatusSent,
		IsSelf:    true,
	}
}

func (c *Composer) send(ctx context.Context, msg model.Message) (Result, error) {
	list, err := c.store.Append(ctx, msg.ChatID, msg)
	if err != nil {
		return Result{}, err
	}
	c.logger.Info("message sent", zap.String("chat_id", msg.ChatID), zap.String("msg_id", msg.ID))
	res := Result{Message: msg}
	prior := list[:len(list)-1]

	if msg.ChatID != model.AssistantChatID {
		c.maybeSimulate(ctx, msg.ChatID, len(prior))
		return res, nil
	}

	reply, err := c.askAssistant(ctx, msg, prior)
	if err != nil {
		return res, err
	}
	res.Reply = &reply
	return res, nil
}

func (c *Composer) askAssistant(ctx context.Context, msg model.Message, prior []model.Message) (model.Message, error) {
	if c.assistant == nil {
		return model.Message{}, fmt.Errorf("%w: no assistant configured", ErrAssistantUnavailable)
	}
	c.typing(msg.ChatID, model.AssistantUserID, true)
	defer c.typing(msg.ChatID, model.AssistantUserID, false)

	req := model.NewChatRequest(msg.Body(), model.HistoryFrom(prior))
	text, err := c.assistant.Chat(ctx, req)
	if err != nil {
		c.logger.Warn("assistant request failed", zap.String("chat_id", msg.ChatID), zap.Error(err))
		return model.Message{}, fmt.Errorf("%w: %w", ErrAssistantUnavailable, err)
	}

	reply := model.Message{
		ID:        c.newID(),
		ChatID:    msg.ChatID,
		SenderID:  model.AssistantUserID,
		Text:      &text,
		Timestamp: c.now().UnixMilli(),
		Status:    model.StatusRead,
	}
	if _, err := c.store.Append(ctx, msg.ChatID, reply); err != nil {
		return model.Message{}, fmt.Errorf("append assistant reply: %w", err)
	}
	return reply, nil
}

// maybeSimulate schedules the canned counterpart reply when priorCount is a
// multiple of simulateEvery.
func (c *Composer) maybeSimulate(ctx context.Context, chatID string, priorCount int) {
	if !c.opts.SimulateReplies || chatID == model.AssistantChatID || priorCount%simulateEvery != 0 {
		return
	}
	chat, ok := c.store.Chat(ctx, chatID)
	if !ok {
		return
	}
	sender := chat.UserID
	c.sched.Schedule(chatID, simulatedTypingWait, func() {
		c.typing(chatID, sender, true)
		c.sched.Schedule(chatID, simulatedReplyWait, func() {
			defer c.typing(chatID, sender, false)
			reply := model.Message{
				ID:        c.newID(),
				ChatID:    chatID,
				SenderID:  sender,
				Text:      model.StringPtr(SimulatedReply),
				Timestamp: c.now().UnixMilli(),
				Status:    model.StatusRead,
			}
			if _, err := c.store.Append(context.Background(), chatID, reply); err != nil {
				c.logger.Warn("simulated reply failed", zap.String("chat_id", chatID), zap.Error(err))
			}
		})
	})
}

func (c *Composer) typing(chatID, userID string, active bool) {
	c.bus.Publish(bus.Event{
		Kind:    bus.ChatTyping,
		ChatID:  chatID,
		Payload: bus.Typing{UserID: userID, Active: active},
	})
}

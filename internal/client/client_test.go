package client

import (
	"context"
	"errors"
	"testing"

	"github.com/matheus3301/teleclone/internal/lock"
	"github.com/matheus3301/teleclone/internal/model"
)

type echoAssistant struct{}

func (echoAssistant) Chat(_ context.Context, req model.ChatRequest) (string, error) {
	return "echo: " + *req.Prompt, nil
}

func openTest(t *testing.T) *Client {
	t.Helper()
	c, err := Open(context.Background(), Params{Profile: "test", Program: "client_test", Assistant: echoAssistant{}})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return c
}

func TestOpenSeedsAndReopens(t *testing.T) {
	t.Setenv("TELECLONE_HOME", t.TempDir())
	ctx := context.Background()

	c := openTest(t)
	if !c.Seeded {
		t.Error("first Open() Seeded = false")
	}
	if got := len(c.Store.Chats(ctx)); got != 3 {
		t.Errorf("chats = %d, want 3", got)
	}
	res, err := c.Composer.SendText(ctx, model.AssistantChatID, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply == nil || res.Reply.Body() != "echo: hi" {
		t.Fatalf("Reply = %+v", res.Reply)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	c = openTest(t)
	defer c.Close()
	if c.Seeded {
		t.Error("second Open() re-seeded the profile")
	}
	msgs := c.Store.Read(ctx, model.AssistantChatID)
	if len(msgs) != 2 || msgs[1].Body() != "echo: hi" {
		t.Errorf("messages after reopen = %+v", msgs)
	}
}

func TestOpenHeldProfile(t *testing.T) {
	t.Setenv("TELECLONE_HOME", t.TempDir())
	c := openTest(t)
	defer c.Close()

	_, err := Open(context.Background(), Params{Profile: "test", Program: "second"})
	var held *lock.LockHeldError
	if !errors.As(err, &held) {
		t.Fatalf("Open() error = %v, want LockHeldError", err)
	}
	if held.Program != "client_test" {
		t.Errorf("held by %q, want client_test", held.Program)
	}
}

func TestOpenInvalidProfile(t *testing.T) {
	t.Setenv("TELECLONE_HOME", t.TempDir())
	if _, err := Open(context.Background(), Params{Profile: "Bad Name"}); err == nil {
		t.Error("Open() accepted invalid profile name")
	}
}

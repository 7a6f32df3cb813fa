package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matheus3301/teleclone/internal/client"
	"github.com/matheus3301/teleclone/internal/config"
	"github.com/matheus3301/teleclone/internal/grouping"
	"github.com/matheus3301/teleclone/internal/logging"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/profile"
)

var errUsage = errors.New("usage")

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	configFlag := flag.String("config", config.Path(), "path to config.toml")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	name := profile.Resolve(*profileFlag, cfg)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(profile.LogPath(name, "telectl"), logging.Options{Component: "telectl", Profile: name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.RequestTimeout()+10*time.Second)
	defer cancel()

	c, err := client.Open(ctx, client.Params{Profile: name, Config: cfg, Program: "telectl", Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cli := &cli{client: c, out: os.Stdout, json: *jsonFlag, now: time.Now}
	err = cli.run(ctx, args)
	if closeErr := c.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if errors.Is(err, errUsage) {
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: telectl [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  chats                     List chats")
	fmt.Fprintln(os.Stderr, "  show <chat>               Show a chat grouped by date")
	fmt.Fprintln(os.Stderr, "  send <chat> <text...>     Send a text message")
	fmt.Fprintln(os.Stderr, "  voice <chat> <seconds>    Send a voice message")
	fmt.Fprintln(os.Stderr, "  read <chat>               Mark a chat read")
	fmt.Fprintln(os.Stderr, "  contact add <peer-id>     Add a contact")
	fmt.Fprintln(os.Stderr, "  profile                   Show your profile")
	fmt.Fprintln(os.Stderr, "  theme [dark|light]        Show or set the theme")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "<chat> is a chat id or a contact name.")
}

type cli struct {
	client *client.Client
	out    io.Writer
	json   bool
	now    func() time.Time
}

func (c *cli) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "chats":
		return c.cmdChats(ctx)
	case "show":
		if len(args) != 2 {
			return errUsage
		}
		return c.cmdShow(ctx, args[1])
	case "send":
		if len(args) < 3 {
			return errUsage
		}
		return c.cmdSend(ctx, args[1], strings.Join(args[2:], " "))
	case "voice":
		if len(args) != 3 {
			return errUsage
		}
		return c.cmdVoice(ctx, args[1], args[2])
	case "read":
		if len(args) != 2 {
			return errUsage
		}
		return c.cmdRead(ctx, args[1])
	case "contact":
		if len(args) != 3 || args[1] != "add" {
			return errUsage
		}
		return c.cmdContactAdd(ctx, args[2])
	case "profile":
		return c.cmdProfile(ctx)
	case "theme":
		if len(args) > 2 {
			return errUsage
		}
		mode := ""
		if len(args) == 2 {
			mode = args[1]
		}
		return c.cmdTheme(ctx, mode)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		return errUsage
	}
}

// resolveChat accepts a chat id or a case-insensitive contact name.
func (c *cli) resolveChat(ctx context.Context, ref string) (model.Chat, error) {
	st := c.client.Store
	if chat, ok := st.Chat(ctx, ref); ok {
		return chat, nil
	}
	for _, chat := range st.Chats(ctx) {
		if u, ok := st.User(ctx, chat.UserID); ok && strings.EqualFold(u.Name, ref) {
			return chat, nil
		}
	}
	return model.Chat{}, fmt.Errorf("no chat %q", ref)
}

func (c *cli) name(ctx context.Context, userID string) string {
	if userID == model.LocalUserID {
		return "You"
	}
	if u, ok := c.client.Store.User(ctx, userID); ok && u.Name != "" {
		return u.Name
	}
	return userID
}

type chatRow struct {
	model.Chat
	Name string `json:"name"`
}

func (c *cli) cmdChats(ctx context.Context) error {
	chats := c.client.Store.Chats(ctx)
	rows := make([]chatRow, len(chats))
	for i, chat := range chats {
		rows[i] = chatRow{Chat: chat, Name: c.name(ctx, chat.UserID)}
	}
	if c.json {
		return c.outputJSON(rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(c.out, "No chats.")
		return nil
	}
	now := c.now()
	for _, r := range rows {
		flags := ""
		if r.IsPinned {
			flags += " [pinned]"
		}
		if r.IsMuted {
			flags += " [muted]"
		}
		fmt.Fprintf(c.out, "%-10s %-16s %3d  %-10s %s%s\n",
			r.ID, r.Name, r.UnreadCount, grouping.DateLabel(r.LastMessageTime, now), r.LastMessage, flags)
	}
	return nil
}

func (c *cli) cmdShow(ctx context.Context, ref string) error {
	chat, err := c.resolveChat(ctx, ref)
	if err != nil {
		return err
	}
	buckets := grouping.Group(c.client.Store.Read(ctx, chat.ID), c.now())
	if c.json {
		return c.outputJSON(threadJSON(buckets))
	}
	writeThread(c.out, buckets, func(id string) string { return c.name(ctx, id) }, c.now())
	return nil
}

func (c *cli) cmdSend(ctx context.Context, ref, text string) error {
	chat, err := c.resolveChat(ctx, ref)
	if err != nil {
		return err
	}
	res, err := c.client.Composer.SendText(ctx, chat.ID, text)
	if err != nil && !res.Sent() {
		return err
	}
	if c.json {
		if jerr := c.outputJSON(res); jerr != nil {
			return jerr
		}
		return err
	}
	if !res.Sent() {
		fmt.Fprintln(c.out, "Nothing to send.")
		return nil
	}
	fmt.Fprintf(c.out, "Sent %s\n", res.Message.ID)
	if res.Reply != nil {
		fmt.Fprintf(c.out, "%s: %s\n", c.name(ctx, res.Reply.SenderID), res.Reply.Body())
	}
	return err
}

func (c *cli) cmdVoice(ctx context.Context, ref, secs string) error {
	chat, err := c.resolveChat(ctx, ref)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(secs)
	if err != nil {
		return fmt.Errorf("invalid seconds %q", secs)
	}
	res, err := c.client.Composer.SendVoice(ctx, chat.ID, n)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(res)
	}
	fmt.Fprintf(c.out, "Sent voice message %s (%ds)\n", res.Message.ID, n)
	return nil
}

func (c *cli) cmdRead(ctx context.Context, ref string) error {
	chat, err := c.resolveChat(ctx, ref)
	if err != nil {
		return err
	}
	return c.client.Store.MarkRead(ctx, chat.ID)
}

func (c *cli) cmdContactAdd(ctx context.Context, id string) error {
	chat, err := c.client.Store.AddContact(ctx, id)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(chat)
	}
	fmt.Fprintf(c.out, "Chat %s with %s\n", chat.ID, c.name(ctx, chat.UserID))
	return nil
}

func (c *cli) cmdProfile(ctx context.Context) error {
	me, _ := c.client.Store.User(ctx, model.LocalUserID)
	if c.json {
		return c.outputJSON(me)
	}
	fmt.Fprintf(c.out, "Profile: %s\n", c.client.Profile)
	fmt.Fprintf(c.out, "Name:    %s\n", me.Name)
	fmt.Fprintf(c.out, "Peer ID: %s\n", me.ID)
	if me.About != nil {
		fmt.Fprintf(c.out, "About:   %s\n", *me.About)
	}
	return nil
}

func (c *cli) cmdTheme(ctx context.Context, mode string) error {
	st := c.client.Store
	switch mode {
	case "":
	case "dark", "light":
		if err := st.SetDarkTheme(ctx, mode == "dark"); err != nil {
			return err
		}
	default:
		return errUsage
	}
	theme := "light"
	if st.DarkTheme(ctx) {
		theme = "dark"
	}
	if c.json {
		return c.outputJSON(map[string]string{"theme": theme})
	}
	fmt.Fprintln(c.out, theme)
	return nil
}

func (c *cli) outputJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

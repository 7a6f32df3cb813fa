package tui

import (
	"strings"
)

// execute runs a command entered at the ':' prompt.
func (a *App) execute(cmd Command) {
	switch cmd.Name {
	case "q", "quit":
		a.Stop()
	case "h", "help":
		a.pages.Push(pageHelp)
	case "chats":
		a.closeChat()
		a.pages.Reset(pageChats)
	case "add", "contact":
		if cmd.Args == "" {
			a.flash.Warn("usage: add <peer-id>")
			return
		}
		a.addContact(cmd.Args)
	case "chat", "open":
		row, ok := a.vm.FindChat(cmd.Args)
		if !ok {
			a.flash.Warn("no chat matches " + cmd.Args)
			return
		}
		a.openChat(row.Chat.ID)
	case "voice":
		if a.vm.Active() == "" {
			a.flash.Warn("open a chat first")
			return
		}
		secs, err := parseSeconds(cmd.Args)
		if err != nil {
			a.flash.Err(err)
			return
		}
		a.sendVoice(secs)
	case "pin":
		a.togglePinned(a.targetChat())
	case "mute":
		a.toggleMuted(a.targetChat())
	case "theme":
		switch strings.ToLower(cmd.Args) {
		case "", "toggle":
			a.toggleTheme()
		case "dark":
			a.setTheme(true)
		case "light":
			a.setTheme(false)
		default:
			a.flash.Warn("usage: theme [dark|light]")
		}
	case "profile", "me":
		a.showOwnProfile()
	case "info", "details":
		a.showContact(a.targetChat())
	default:
		a.flash.Warn("unknown command: " + cmd.Name)
	}
}

// targetChat is the open chat, or the selected row on the chat list.
func (a *App) targetChat() string {
	if id := a.vm.Active(); id != "" {
		return id
	}
	return a.list.SelectedChat()
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimPrefix(strings.TrimSpace(input), ":")
	name, args, _ := strings.Cut(input, " ")
	return Command{
		Name: strings.ToLower(name),
		Args: strings.TrimSpace(args),
	}
}

// parseSeconds reads a voice message length such as "5", "5s" or "1:05".
func parseSeconds(arg string) (int, error) {
	arg = strings.TrimSuffix(strings.TrimSpace(arg), "s")
	if m, s, ok := strings.Cut(arg, ":"); ok {
		mins, err1 := strconv.Atoi(m)
		secs, err2 := strconv.Atoi(s)
		if err1 != nil || err2 != nil || secs < 0 || secs > 59 || mins < 0 {
			return 0, fmt.Errorf("invalid duration %q", arg)
		}
		return mins*60 + secs, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", arg)
	}
	return n, nil
}

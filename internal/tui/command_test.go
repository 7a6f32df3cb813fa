package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"quit", Command{Name: "quit"}},
		{"  Add   peer-123  ", Command{Name: "add", Args: "peer-123"}},
		{":theme light", Command{Name: "theme", Args: "light"}},
		{"chat Alice Smith", Command{Name: "chat", Args: "Alice Smith"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.in); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"12s", 12, false},
		{"1:05", 65, false},
		{"0", 0, false},
		{"1:75", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSeconds(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseSeconds(%q) = %d, %v", tt.in, got, err)
		}
	}
}

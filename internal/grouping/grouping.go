// Package grouping turns a flat chat history into date-labelled buckets with
// per-message sender-run flags, ready for rendering.
package grouping

import (
	"time"

	"github.com/matheus3301/teleclone/internal/model"
)

// Bucket is a run of consecutive messages sharing a date label.
type Bucket struct {
	Label    string
	Messages []model.Message
}

// Entry is a message annotated with its position in a sender run.
type Entry struct {
	Message        model.Message
	IsFirstInGroup bool
	IsLastInGroup  bool
}

// DateLabel returns the divider label for ts (epoch ms) relative to now, in
// now's location: "15:04" today, "Yesterday", "Jan 2" within the year, and
// "2.01.2006" before that.
func DateLabel(ts int64, now time.Time) string {
	t := time.UnixMilli(ts).In(now.Location())
	y, m, d := t.Date()
	ny, nm, nd := now.Date()
	if y == ny && m == nm && d == nd {
		return t.Format("15:04")
	}
	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if y == yy && m == ym && d == yd {
		return "Yesterday"
	}
	if y == ny {
		return t.Format("Jan 2")
	}
	return t.Format("2.01.2006")
}

// Group splits msgs into buckets, opening a new bucket whenever the date label
// changes. Input order is kept; an empty input yields an empty result.
func Group(msgs []model.Message, now time.Time) []Bucket {
	buckets := []Bucket{}
	for _, m := range msgs {
		label := DateLabel(m.Timestamp, now)
		if n := len(buckets); n > 0 && buckets[n-1].Label == label {
			buckets[n-1].Messages = append(buckets[n-1].Messages, m)
			continue
		}
		buckets = append(buckets, Bucket{Label: label, Messages: []model.Message{m}})
	}
	return buckets
}

// Entries annotates the bucket's messages. Neighbours are looked up inside the
// bucket only, never across a date divider.
func (b Bucket) Entries() []Entry {
	entries := make([]Entry, len(b.Messages))
	for i, m := range b.Messages {
		entries[i] = Entry{
			Message:        m,
			IsFirstInGroup: i == 0 || b.Messages[i-1].SenderID != m.SenderID,
			IsLastInGroup:  i == len(b.Messages)-1 || b.Messages[i+1].SenderID != m.SenderID,
		}
	}
	return entries
}

// Flatten concatenates the buckets' messages back into one sequence.
func Flatten(buckets []Bucket) []model.Message {
	var n int
	for _, b := range buckets {
		n += len(b.Messages)
	}
	out := make([]model.Message, 0, n)
	for _, b := range buckets {
		out = append(out, b.Messages...)
	}
	return out
}

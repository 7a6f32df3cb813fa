package grouping

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/matheus3301/teleclone/internal/model"
)

var now = time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)

func msgAt(id, sender string, t time.Time) model.Message {
	return model.Message{ID: id, SenderID: sender, Timestamp: t.UnixMilli()}
}

func TestDateLabel(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"today", time.Date(2026, 6, 15, 9, 5, 0, 0, time.UTC), "09:05"},
		{"today midnight", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), "00:00"},
		{"yesterday", time.Date(2026, 6, 14, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"same year", time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC), "Jan 3"},
		{"previous year", time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC), "31.12.2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateLabel(tt.at.UnixMilli(), now); got != tt.want {
				t.Errorf("DateLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateLabelYesterdayAcrossYear(t *testing.T) {
	newYear := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	at := time.Date(2025, 12, 31, 22, 0, 0, 0, time.UTC)
	if got := DateLabel(at.UnixMilli(), newYear); got != "Yesterday" {
		t.Errorf("DateLabel() = %q, want Yesterday", got)
	}
}

func TestGroupEmpty(t *testing.T) {
	for _, in := range [][]model.Message{nil, {}} {
		got := Group(in, now)
		if got == nil || len(got) != 0 {
			t.Errorf("Group(%v) = %#v, want empty", in, got)
		}
	}
}

func TestGroupSingleMessage(t *testing.T) {
	got := Group([]model.Message{msgAt("a", "me", now)}, now)
	if len(got) != 1 {
		t.Fatalf("buckets = %d, want 1", len(got))
	}
	e := got[0].Entries()
	if len(e) != 1 || !e[0].IsFirstInGroup || !e[0].IsLastInGroup {
		t.Errorf("Entries() = %+v, want one entry with both flags", e)
	}
}

func TestGroupBucketsByLabel(t *testing.T) {
	old := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	msgs := []model.Message{
		msgAt("1", "me", old),
		msgAt("2", "bob", old.Add(time.Hour)),
		msgAt("3", "bob", yesterday),
		msgAt("4", "me", now),
	}
	got := Group(msgs, now)
	var labels []string
	for _, b := range got {
		labels = append(labels, b.Label)
	}
	want := []string{"Feb 1", "Yesterday", "18:30"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestGroupOutOfOrderReopensLabel(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	msgs := []model.Message{
		msgAt("1", "me", yesterday),
		msgAt("2", "me", now),
		msgAt("3", "me", yesterday),
	}
	if got := Group(msgs, now); len(got) != 3 {
		t.Errorf("buckets = %d, want 3 (labels only merge when adjacent)", len(got))
	}
}

func TestEntriesFlagsStayInBucket(t *testing.T) {
	yesterday := now.AddDate(0, 0, -1)
	msgs := []model.Message{
		msgAt("1", "bob", yesterday),
		msgAt("2", "bob", now),
	}
	got := Group(msgs, now)
	for _, b := range got {
		for _, e := range b.Entries() {
			if !e.IsFirstInGroup || !e.IsLastInGroup {
				t.Errorf("%s: flags = %v/%v, want true/true", e.Message.ID, e.IsFirstInGroup, e.IsLastInGroup)
			}
		}
	}
}

// randomHistory builds n messages from a small set of senders spread over a
// few days, so both bucket and sender boundaries occur.
func randomHistory(r *rand.Rand, n int) []model.Message {
	senders := []string{"me", "alice", "bob"}
	msgs := make([]model.Message, n)
	for i := range msgs {
		at := now.Add(-time.Duration(r.IntN(4*24)) * time.Hour)
		if r.IntN(2) == 0 {
			at = now
		}
		msgs[i] = msgAt(fmt.Sprint(i), senders[r.IntN(len(senders))], at)
	}
	return msgs
}

func TestGroupProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 200; iter++ {
		msgs := randomHistory(r, 1+r.IntN(40))
		buckets := Group(msgs, now)

		if flat := Flatten(buckets); !reflect.DeepEqual(flat, msgs) {
			t.Fatalf("iter %d: Flatten(Group(x)) != x", iter)
		}
		if again := Group(Flatten(buckets), now); !reflect.DeepEqual(again, buckets) {
			t.Fatalf("iter %d: grouping is not idempotent", iter)
		}
		for bi, b := range buckets {
			if len(b.Messages) == 0 {
				t.Fatalf("iter %d: bucket %d is empty", iter, bi)
			}
			if bi > 0 && buckets[bi-1].Label == b.Label {
				t.Fatalf("iter %d: adjacent buckets share label %q", iter, b.Label)
			}
			entries := b.Entries()
			for i, e := range entries {
				wantFirst := i == 0 || b.Messages[i-1].SenderID != e.Message.SenderID
				wantLast := i == len(entries)-1 || b.Messages[i+1].SenderID != e.Message.SenderID
				if e.IsFirstInGroup != wantFirst || e.IsLastInGroup != wantLast {
					t.Fatalf("iter %d: bucket %d entry %d flags = %v/%v, want %v/%v",
						iter, bi, i, e.IsFirstInGroup, e.IsLastInGroup, wantFirst, wantLast)
				}
			}
		}
	}
}

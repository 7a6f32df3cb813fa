package main

import (
	"fmt"
	"io"
	"time"

	"github.com/matheus3301/teleclone/internal/grouping"
	"github.com/matheus3301/teleclone/internal/model"
)

type bucketJSON struct {
	Label   string      `json:"label"`
	Entries []entryJSON `json:"entries"`
}

type entryJSON struct {
	model.Message
	IsFirstInGroup bool `json:"isFirstInGroup"`
	IsLastInGroup  bool `json:"isLastInGroup"`
}

func threadJSON(buckets []grouping.Bucket) []bucketJSON {
	out := make([]bucketJSON, len(buckets))
	for i, b := range buckets {
		out[i].Label = b.Label
		out[i].Entries = make([]entryJSON, 0, len(b.Messages))
		for _, e := range b.Entries() {
			out[i].Entries = append(out[i].Entries, entryJSON{
				Message:        e.Message,
				IsFirstInGroup: e.IsFirstInGroup,
				IsLastInGroup:  e.IsLastInGroup,
			})
		}
	}
	return out
}

// writeThread prints buckets as plain text: a divider per date label and a
// sender line at the start of each run.
func writeThread(w io.Writer, buckets []grouping.Bucket, name func(string) string, now time.Time) {
	if len(buckets) == 0 {
		fmt.Fprintln(w, "No messages yet.")
		return
	}
	for _, b := range buckets {
		fmt.Fprintf(w, "── %s ──\n", b.Label)
		for _, e := range b.Entries() {
			m := e.Message
			if e.IsFirstInGroup {
				fmt.Fprintf(w, "%s:\n", name(m.SenderID))
			}
			body := m.Body()
			if m.IsVoice {
				secs := 0
				if m.VoiceDuration != nil {
					secs = *m.VoiceDuration
				}
				body = fmt.Sprintf("[voice %ds]", secs)
			}
			fmt.Fprintf(w, "  %s  (%s)\n", body, time.UnixMilli(m.Timestamp).In(now.Location()).Format("15:04"))
			if e.IsLastInGroup {
				fmt.Fprintln(w)
			}
		}
	}
}

package notifier

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

func TestLogNotifier_Notify_zeroListings(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify([]model.JobListing{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogNotifier_Notify_multipleListings(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	listings := []model.JobListing{
		{Company: "Acme", Title: "Go Engineer Job", Location: "India", ApplyLink: "https://example.com/1"},
		{Company: "Beta", Title: "Hiring Developer", Location: "India", ApplyLink: "#"},
	}
	if err := n.Notify(listings); err != nil {
		t.Errorf("Notify(listings) = %v, want nil", err)
	}

	out := buf.String()
	if got := strings.Count(out, "msg=\"new job\""); got != 2 {
		t.Errorf("expected 2 log lines, got %d: %s", got, out)
	}
	if !strings.Contains(out, "apply_link=https://example.com/1") {
		t.Errorf("missing apply link in %q", out)
	}
}

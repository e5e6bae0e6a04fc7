package clipboard

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

type recordingPublisher struct {
	texts []string
	err   error
}

func (r *recordingPublisher) Publish(text string) error {
	if r.err != nil {
		return r.err
	}
	r.texts = append(r.texts, text)
	return nil
}

func TestNotifying_Publish(t *testing.T) {
	inner := &recordingPublisher{}
	var gotTitle, gotMsg string
	n := WithNotification(inner, "asr-to-clipboard")
	n.notify = func(title, message string, _ any) error {
		gotTitle, gotMsg = title, message
		return nil
	}

	if err := n.Publish("hello world"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(inner.texts) != 1 || inner.texts[0] != "hello world" {
		t.Errorf("inner received %v", inner.texts)
	}
	if gotTitle != "asr-to-clipboard" || gotMsg != "hello world" {
		t.Errorf("notification = (%q, %q)", gotTitle, gotMsg)
	}
}

func TestNotifying_InnerFailureSkipsNotification(t *testing.T) {
	inner := &recordingPublisher{err: ErrPublish}
	notified := false
	n := WithNotification(inner, "t")
	n.notify = func(string, string, any) error {
		notified = true
		return nil
	}

	if err := n.Publish("x"); !errors.Is(err, ErrPublish) {
		t.Fatalf("err = %v, want ErrPublish", err)
	}
	if notified {
		t.Error("notification sent after failed publish")
	}
}

func TestNotifying_NotifyFailure(t *testing.T) {
	inner := &recordingPublisher{}
	n := WithNotification(inner, "t")
	n.notify = func(string, string, any) error { return errors.New("no dbus") }

	if err := n.Publish("x"); err == nil {
		t.Fatal("expected notify error")
	}
	if len(inner.texts) != 1 {
		t.Error("clipboard write should still have happened")
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 6, "hello…"},
		{"multibyte", strings.Repeat("語", 10), 4, "語語語…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preview(tt.in, tt.limit)
			if got != tt.want {
				t.Errorf("preview = %q, want %q", got, tt.want)
			}
			if utf8.RuneCountInString(got) > tt.limit {
				t.Errorf("preview longer than %d runes", tt.limit)
			}
		})
	}
}

func TestSystem_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping clipboard integration test in short mode")
	}

	err := NewSystem().Publish("asr-to-clipboard test")
	if errors.Is(err, ErrUnsupported) {
		t.Skip("no clipboard utility available")
	}
	if err != nil {
		// Headless CI: the utility exists but no display is attached.
		t.Skipf("clipboard not writable here: %v", err)
	}
}

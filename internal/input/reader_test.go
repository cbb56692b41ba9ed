package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/spam-console/internal/utils"
	"go.uber.org/zap/zaptest"
)

const sampleEmail = "From: Prize Desk <winner@bit.ly>\r\n" +
	"To: you@example.com\r\n" +
	"Subject: You are a WINNER\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Click here to claim your free money: http://bit.ly/x\r\n"

func newTestReader(t *testing.T) *Reader {
	logger := zaptest.NewLogger(t)
	return NewReader(logger, utils.NewTextProcessor(logger))
}

func TestReadPlainText(t *testing.T) {
	got, err := newTestReader(t).Read(strings.NewReader("WIN FREE MONEY NOW!!! http://bit.ly/x"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "WIN FREE MONEY NOW!!! http://bit.ly/x" {
		t.Errorf("got %q", got)
	}
}

func TestReadEmail(t *testing.T) {
	got, err := newTestReader(t).Read(strings.NewReader(sampleEmail))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := "You are a WINNER\n\nClick here to claim your free money: http://bit.ly/x"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "message.eml")
	if err := os.WriteFile(path, []byte(sampleEmail), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := newTestReader(t).ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(got, "You are a WINNER") {
		t.Errorf("got %q", got)
	}

	if _, err := newTestReader(t).ReadFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLooksLikeEmail(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"email", sampleEmail, true},
		{"folded header", "Subject: a long\n subject line\nFrom: a@b.c\n\nbody", true},
		{"plain text", "WIN FREE MONEY NOW!!! http://bit.ly/x", false},
		{"colon in prose", "Note: call me later\n\nthanks", false},
		{"no blank line", "From: a@b.c\nSubject: hi", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeEmail([]byte(tt.data)); got != tt.want {
				t.Errorf("LooksLikeEmail = %v, want %v", got, tt.want)
			}
		})
	}
}

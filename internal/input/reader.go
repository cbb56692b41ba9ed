// Package input loads message text from files, pipes and email sources.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/mikey/spam-console/internal/utils"
	"go.uber.org/zap"
)

const maxInputBytes = 10 << 20

// Reader turns raw input into the message text to analyze
type Reader struct {
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReader creates a new input reader
func NewReader(logger *zap.Logger, textProcessor *utils.TextProcessor) *Reader {
	return &Reader{
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ReadFile loads a message from path. Files ending in .eml, or whose content
// starts with a mail header block, are parsed as email.
func (r *Reader) ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	r.logger.Info("Reading message from file", zap.String("file", path))
	return r.read(f, strings.EqualFold(filepath.Ext(path), ".eml"))
}

// Read loads a message from an arbitrary stream, sniffing for email content
func (r *Reader) Read(src io.Reader) (string, error) {
	return r.read(src, false)
}

func (r *Reader) read(src io.Reader, forceEmail bool) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	if forceEmail || LooksLikeEmail(data) {
		return r.fromEmail(data)
	}
	return r.textProcessor.SanitizeUTF8(string(data)), nil
}

// fromEmail extracts subject and text body. HTML-only messages are
// down-converted to text by enmime.
func (r *Reader) fromEmail(data []byte) (string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse email: %w", err)
	}
	for _, perr := range env.Errors {
		r.logger.Debug("Email parse warning", zap.String("error", perr.Error()))
	}

	subject := strings.TrimSpace(env.GetHeader("Subject"))
	body := strings.TrimSpace(env.Text)

	r.logger.Debug("Parsed email input",
		zap.String("from", env.GetHeader("From")),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)))

	switch {
	case subject == "":
		return body, nil
	case body == "":
		return subject, nil
	default:
		return subject + "\n\n" + body, nil
	}
}

var emailHeaders = []string{"from", "to", "subject", "date", "received", "return-path", "mime-version", "message-id"}

// LooksLikeEmail reports whether data starts with an RFC 5322 header block
// containing at least one well-known mail header.
func LooksLikeEmail(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	known := false
	lines := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			return known && lines > 0
		}
		lines++
		if line[0] == ' ' || line[0] == '\t' {
			if lines == 1 {
				return false
			}
			continue
		}
		name, _, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return false
		}
		for _, h := range emailHeaders {
			if strings.EqualFold(name, h) {
				known = true
			}
		}
	}
	return false
}

package console

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/mikey/spam-console/internal/core"
	"github.com/mikey/spam-console/internal/keys"
	"go.uber.org/zap"
)

// Interactive is a draft editor on a line-oriented terminal. Lines accumulate
// into a draft; the submit chord at the end of a line submits it, and end of
// input submits whatever is left.
type Interactive struct {
	controller *core.Controller
	renderer   *Renderer
	in         io.Reader
	platform   string
	logger     *zap.Logger
}

// NewInteractive creates a new interactive console
func NewInteractive(controller *core.Controller, renderer *Renderer, in io.Reader, platform string, logger *zap.Logger) *Interactive {
	return &Interactive{
		controller: controller,
		renderer:   renderer,
		in:         in,
		platform:   platform,
		logger:     logger,
	}
}

// Run reads input until EOF or ctx is done. Input is read on its own
// goroutine so analyses never block typing. Cancellation of ctx is a clean
// shutdown.
func (c *Interactive) Run(ctx context.Context) error {
	c.renderer.Notice("Paste a message to analyze. Press %s to submit, or end input to submit and quit.\n", c.chordHint())

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var draft []string
	for {
		select {
		case <-ctx.Done():
			c.controller.Wait()
			c.logger.Debug("Console interrupted", zap.Error(ctx.Err()))
			return nil
		case line, ok := <-lines:
			if !ok {
				c.submit(ctx, &draft)
				c.controller.Wait()
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}

			text, ev, chord := keys.SplitTrailing(line)
			draft = append(draft, text)
			if chord && keys.IsSubmit(ev, c.platform) {
				c.submit(ctx, &draft)
			}
		}
	}
}

func (c *Interactive) submit(ctx context.Context, draft *[]string) {
	message := strings.Join(*draft, "\n")
	if strings.TrimSpace(message) == "" {
		*draft = nil
		return
	}
	if !c.controller.Analyze(ctx, message) {
		c.logger.Debug("Submission rejected while analyzing")
		c.renderer.Notice("An analysis is already running; keep editing and submit again when it finishes.\n")
		return
	}
	*draft = nil
}

func (c *Interactive) chordHint() string {
	if c.platform == "darwin" {
		return "Cmd+Enter"
	}
	return "Ctrl+Enter"
}

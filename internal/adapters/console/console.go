package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mikey/spam-console/internal/config"
	"github.com/mikey/spam-console/internal/core"
	"github.com/mikey/spam-console/internal/presenter"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer writes controller states to the terminal. Exactly one of the
// progress line, the result panel or the error panel is written per state.
type Renderer struct {
	out      io.Writer
	logger   *zap.Logger
	cfg      config.ConsoleConfig
	endpoint string
	heading  cases.Caser

	mu sync.Mutex
}

// NewRenderer creates a renderer and subscribes it to the controller
func NewRenderer(controller *core.Controller, out io.Writer, logger *zap.Logger, cfg config.ConsoleConfig, endpoint string) *Renderer {
	if cfg.BarWidth <= 0 {
		cfg.BarWidth = 30
	}
	r := &Renderer{
		out:      out,
		logger:   logger,
		cfg:      cfg,
		endpoint: endpoint,
		heading:  cases.Upper(language.English),
	}
	controller.OnChange(r.Render)
	return r
}

// Render writes the panel for state
func (r *Renderer) Render(state core.AnalysisState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.cfg.Format == FormatJSON {
		err = r.renderJSON(state)
	} else {
		err = r.renderText(state)
	}
	if err != nil {
		r.logger.Error("Failed to render state", zap.Stringer("phase", state.Phase), zap.Error(err))
	}
}

// Printf writes a free-form line, serialized with state panels
func (r *Renderer) Printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// Notice writes a human-facing line. It is suppressed in JSON mode so stdout
// stays a stream of JSON documents.
func (r *Renderer) Notice(format string, args ...any) {
	if r.cfg.Format == FormatJSON {
		return
	}
	r.Printf(format, args...)
}

func (r *Renderer) section(title string) string {
	return fmt.Sprintf("\n=== %s ===\n", r.heading.String(title))
}

func (r *Renderer) renderText(state core.AnalysisState) error {
	var b strings.Builder

	switch state.Phase {
	case core.PhaseIdle:
		return nil
	case core.PhaseAnalyzing:
		b.WriteString("Processing...\n")
	case core.PhaseSucceeded:
		result := state.Result
		verdict := "SYSTEM SECURE"
		if result.Prediction == core.VerdictSpam {
			verdict = "THREAT DETECTED"
		}
		confidence := presenter.PresentConfidence(result.Confidence)

		b.WriteString(r.section("Scan Result"))
		fmt.Fprintf(&b, "%s\n", verdict)
		fmt.Fprintf(&b, "Confidence score: %s\n", confidence.RoundedLabel())
		fmt.Fprintf(&b, "[%s]\n", confidence.Bar(r.cfg.BarWidth))

		if r.cfg.Advanced {
			b.WriteString(r.section("Advanced Signal Breakdown"))
			for _, s := range presenter.Breakdown(result.Signals) {
				fmt.Fprintf(&b, "%-28s %8s\n", r.heading.String(s.Name), s.Label())
				fmt.Fprintf(&b, "[%s]\n", s.Bar(r.cfg.BarWidth))
			}
		}
	case core.PhaseFailed:
		b.WriteString(r.section("Connection Error"))
		fmt.Fprintf(&b, "%s\n", state.ErrorMessage)
		fmt.Fprintf(&b, "Make sure the classification service is reachable at %s\n", r.endpoint)
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

type jsonSignal struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Scale float64 `json:"scale"`
	Ratio float64 `json:"ratio"`
}

type jsonState struct {
	Phase      string       `json:"phase"`
	RequestID  string       `json:"request_id,omitempty"`
	Prediction string       `json:"prediction,omitempty"`
	Label      string       `json:"label,omitempty"`
	Confidence *float64     `json:"confidence,omitempty"`
	Signals    []jsonSignal `json:"signals,omitempty"`
	Error      string       `json:"error,omitempty"`
	ErrorKind  string       `json:"error_kind,omitempty"`
}

// renderJSON emits one line per terminal state
func (r *Renderer) renderJSON(state core.AnalysisState) error {
	if !state.Phase.Terminal() {
		return nil
	}

	out := jsonState{Phase: state.Phase.String(), RequestID: state.RequestID}
	if state.Phase == core.PhaseSucceeded {
		result := state.Result
		out.Prediction = string(result.Prediction)
		out.Label = result.Label
		out.Confidence = &result.Confidence
		for _, s := range presenter.Breakdown(result.Signals) {
			out.Signals = append(out.Signals, jsonSignal{
				Key:   s.Key,
				Label: s.Name,
				Value: s.DisplayValue,
				Scale: s.Scale,
				Ratio: s.Ratio,
			})
		}
	} else {
		out.Error = state.ErrorMessage
		out.ErrorKind = core.KindOf(state.Failure).String()
	}

	return json.NewEncoder(r.out).Encode(out)
}

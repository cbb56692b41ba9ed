package core

import (
	"strings"
	"time"
)

// Phase is the lifecycle stage of an analysis attempt
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends an analysis attempt
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Verdict is the normalized prediction of the classification service
type Verdict string

const (
	VerdictSpam    Verdict = "SPAM"
	VerdictNotSpam Verdict = "NOT_SPAM"
)

// VerdictFromLabel maps a service label onto a verdict. Anything other than
// SPAM (the service answers HAM) counts as not spam.
func VerdictFromLabel(label string) Verdict {
	if strings.EqualFold(strings.TrimSpace(label), string(VerdictSpam)) {
		return VerdictSpam
	}
	return VerdictNotSpam
}

// AnalysisRequest is a message submitted for classification
type AnalysisRequest struct {
	ID   string
	Text string
}

// SignalSet holds the auxiliary risk signals returned with a verdict.
// Values are passed through as produced and are not clamped.
type SignalSet struct {
	KeywordScore float64
	URLRisk      float64
	CapRatio     float64
	Entropy      float64
}

// AnalysisResult represents a successful classification
type AnalysisResult struct {
	Prediction Verdict
	Label      string
	Confidence float64
	Signals    SignalSet
	AnalyzedAt time.Time
}

// AnalysisState is the renderable state of the request controller.
// Result is set only in PhaseSucceeded; Failure and ErrorMessage only in
// PhaseFailed.
type AnalysisState struct {
	Phase        Phase
	RequestID    string
	Result       *AnalysisResult
	Failure      error
	ErrorMessage string
}

package presenter

import (
	"math"
	"strconv"
	"strings"

	"github.com/mikey/spam-console/internal/core"
)

const (
	// PercentScale is the display scale of percentage-like signals
	PercentScale = 100.0
	// EntropyScale is the display scale of Shannon entropy in bits per symbol
	EntropyScale = 8.0
)

// Presentation is a signal ready for rendering. Ratio is always in [0,1];
// DisplayValue is the raw value and may exceed the scale.
type Presentation struct {
	Ratio        float64
	DisplayValue float64
	Scale        float64
}

// Signal is one labelled entry of the advanced breakdown
type Signal struct {
	Key  string
	Name string
	Presentation
}

// PresentSignal maps value onto its display scale. Values outside the scale
// keep their number but the ratio is clamped so bars never overflow.
func PresentSignal(value, maxScale float64) Presentation {
	return Presentation{
		Ratio:        clampRatio(value, maxScale),
		DisplayValue: value,
		Scale:        maxScale,
	}
}

// PresentConfidence presents a [0,1] confidence as a percentage
func PresentConfidence(confidence float64) Presentation {
	return Presentation{
		Ratio:        clampRatio(confidence, 1),
		DisplayValue: confidence * PercentScale,
		Scale:        PercentScale,
	}
}

func clampRatio(value, maxScale float64) float64 {
	if maxScale <= 0 || math.IsNaN(maxScale) || math.IsNaN(value) {
		return 0
	}
	ratio := value / maxScale
	switch {
	case math.IsNaN(ratio):
		return 0
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}

// Label formats the display value, with a percent sign on 0–100 scales
func (p Presentation) Label() string {
	text := strconv.FormatFloat(p.DisplayValue, 'f', -1, 64)
	if p.Scale == PercentScale {
		return text + "%"
	}
	return text
}

// RoundedLabel is Label with the display value rounded to a whole number
func (p Presentation) RoundedLabel() string {
	text := strconv.FormatFloat(p.DisplayValue, 'f', 0, 64)
	if p.Scale == PercentScale {
		return text + "%"
	}
	return text
}

// Bar renders the ratio as a fixed-width text bar
func (p Presentation) Bar(width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(p.Ratio * float64(width)))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Breakdown returns the four signals in display order
func Breakdown(signals core.SignalSet) []Signal {
	return []Signal{
		{Key: "keywordScore", Name: "Suspicious Keyword Score", Presentation: PresentSignal(signals.KeywordScore, PercentScale)},
		{Key: "urlRisk", Name: "URL Risk Coefficient", Presentation: PresentSignal(signals.URLRisk, PercentScale)},
		{Key: "capRatio", Name: "Capitalization Ratio", Presentation: PresentSignal(signals.CapRatio, PercentScale)},
		{Key: "entropy", Name: "Message Entropy (Sh)", Presentation: PresentSignal(signals.Entropy, EntropyScale)},
	}
}

package core

import (
	"context"
	"time"
)

// Classifier defines the interface for the remote classification service
type Classifier interface {
	// Classify submits a message and returns the decoded verdict. Failures are
	// *HTTPError, *TransportError or *MalformedResponseError.
	Classify(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error)
}

// Observer receives the outcome of every finished analysis
type Observer interface {
	ObserveAnalysis(outcome string, duration time.Duration)
}

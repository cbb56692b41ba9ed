package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "github.com/mikey/spam-console/internal/core"

// Listener is called with a snapshot after every state transition
type Listener func(AnalysisState)

// Controller owns the analysis lifecycle. At most one request is in flight;
// submissions made while analyzing are ignored.
type Controller struct {
	classifier Classifier
	logger     *zap.Logger
	observer   Observer
	newID      func() string

	mu        sync.Mutex
	state     AnalysisState
	seq       uint64
	listeners []Listener
	inflight  sync.WaitGroup

	// notifyMu serializes deliveries; delivered is the seq of the last
	// state handed to listeners.
	notifyMu  sync.Mutex
	delivered uint64
}

// NewController creates a new request controller. observer may be nil.
func NewController(classifier Classifier, logger *zap.Logger, observer Observer) *Controller {
	return &Controller{
		classifier: classifier,
		logger:     logger,
		observer:   observer,
		newID:      uuid.NewString,
	}
}

// OnChange registers a listener for state transitions. Listeners run outside
// the controller lock, on the goroutine that made the transition, and see
// states in commit order. A listener must not call Analyze.
func (c *Controller) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// State returns a snapshot of the current state
func (c *Controller) State() AnalysisState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Analyze submits rawText for classification and returns immediately.
// It reports whether a request was issued: blank text and calls made while
// another analysis is running are no-ops.
func (c *Controller) Analyze(ctx context.Context, rawText string) bool {
	if strings.TrimSpace(rawText) == "" {
		c.logger.Debug("Ignoring empty submission")
		return false
	}

	c.mu.Lock()
	if c.state.Phase == PhaseAnalyzing {
		inflightID := c.state.RequestID
		c.mu.Unlock()
		c.logger.Debug("Ignoring submission while analysis is in flight",
			zap.String("request_id", inflightID))
		return false
	}
	req := &AnalysisRequest{ID: c.newID(), Text: rawText}
	c.state = AnalysisState{Phase: PhaseAnalyzing, RequestID: req.ID}
	c.seq++
	seq, snapshot, listeners := c.seq, c.state, c.snapshotListeners()
	c.inflight.Add(1)
	c.mu.Unlock()

	c.logger.Info("Analysis started",
		zap.String("request_id", req.ID),
		zap.Int("message_length", len(rawText)))
	c.notify(seq, listeners, snapshot)

	go c.run(ctx, req)
	return true
}

// Wait blocks until no analysis is in flight
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) run(ctx context.Context, req *AnalysisRequest) {
	defer c.inflight.Done()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "spam_console.analyze")
	span.SetAttributes(attribute.String("request.id", req.ID))
	defer span.End()

	startTime := time.Now()
	result, err := c.classifier.Classify(ctx, req)
	duration := time.Since(startTime)

	next := AnalysisState{RequestID: req.ID}
	switch {
	case err != nil:
		next.Phase = PhaseFailed
		next.Failure = err
		next.ErrorMessage = DisplayMessage(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, next.ErrorMessage)
		c.logger.Warn("Analysis failed",
			zap.String("request_id", req.ID),
			zap.Stringer("kind", KindOf(err)),
			zap.String("message", next.ErrorMessage),
			zap.Duration("duration", duration),
			zap.Error(err))
	case result == nil:
		next.Phase = PhaseFailed
		next.Failure = &MalformedResponseError{}
		next.ErrorMessage = DisplayMessage(next.Failure)
		c.logger.Warn("Classifier returned no result", zap.String("request_id", req.ID))
	default:
		next.Phase = PhaseSucceeded
		next.Result = result
		span.SetAttributes(
			attribute.String("analysis.prediction", string(result.Prediction)),
			attribute.Float64("analysis.confidence", result.Confidence))
		c.logger.Info("Analysis succeeded",
			zap.String("request_id", req.ID),
			zap.String("prediction", string(result.Prediction)),
			zap.Float64("confidence", result.Confidence),
			zap.Duration("duration", duration))
	}

	if c.observer != nil {
		outcome := "success"
		if next.Phase == PhaseFailed {
			outcome = KindOf(next.Failure).String()
		}
		c.observer.ObserveAnalysis(outcome, duration)
	}

	c.mu.Lock()
	c.state = next
	c.seq++
	seq, listeners := c.seq, c.snapshotListeners()
	c.mu.Unlock()

	c.notify(seq, listeners, next)
}

func (c *Controller) snapshotListeners() []Listener {
	return append([]Listener(nil), c.listeners...)
}

// notify delivers state unless a later commit was already delivered. A
// terminal state that loses the race with the next Analyze is dropped.
func (c *Controller) notify(seq uint64, listeners []Listener, state AnalysisState) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.delivered {
		c.logger.Debug("Dropping superseded state",
			zap.String("request_id", state.RequestID),
			zap.Stringer("phase", state.Phase))
		return
	}
	c.delivered = seq
	for _, l := range listeners {
		l(state)
	}
}

package guideway

import (
	"context"
	"log/slog"
	"time"

	"github.com/opencourtlab/guideway/internal/logging"
	"github.com/opencourtlab/guideway/internal/metrics"
	"github.com/opencourtlab/guideway/internal/runtime"
	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/graph"
	"github.com/opencourtlab/guideway/pkg/ports"
	"github.com/opencourtlab/guideway/pkg/session"
	"github.com/opencourtlab/guideway/pkg/summary"
)

// Version is the library version, printed by the CLI.
const Version = "0.4.0"

// DefaultSessionID is used when the host does not supply a session key.
// Kiosks running several simultaneous sessions (e.g. the dual-pane synced
// view) give each its own id and get fully independent state.
const DefaultSessionID = "kiosk"

// Session is the high-level entry point: one engine instance serving one
// user session. It wires the traversal core, the summarizer, the completion
// pipeline, and session persistence behind the narrow contract rendering
// front-ends consume (Current/Options/Advance/Back/Reset/Summary).
//
// A Session is not safe for concurrent use; each active session owns its own
// instance.
type Session struct {
	id         string
	engine     *runtime.Engine
	summarizer *summary.Summarizer
	state      *domain.State
	manager    *session.Manager
	sink       ports.CompletionSink
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	phaseRules []summary.PhaseRule
}

var _ ports.Walker = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithSessionID sets the persistence key for this session.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithStore enables session persistence through the given store.
func WithStore(store ports.StateStore) Option {
	return func(s *Session) {
		s.manager = session.NewManager(store)
	}
}

// WithManager enables session persistence through a pre-configured manager
// (e.g. one carrying a distributed locker).
func WithManager(m *session.Manager) Option {
	return func(s *Session) {
		s.manager = m
	}
}

// WithCompletionSink registers the back-office callback invoked when the
// session reaches a terminal node.
func WithCompletionSink(sink ports.CompletionSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithPhaseRules injects the phase-classification table for the summarizer.
func WithPhaseRules(rules []summary.PhaseRule) Option {
	return func(s *Session) {
		s.phaseRules = rules
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Open creates a session over a validated graph. When persistence is
// configured, a saved snapshot for the session key is restored; a snapshot
// that no longer fits the graph is discarded and the session starts fresh.
// It never silently resumes into an invalid node.
func Open(ctx context.Context, g *graph.Graph, opts ...Option) (*Session, error) {
	s := &Session{
		id:     DefaultSessionID,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = runtime.NewEngine(g, runtime.WithLogger(s.logger))
	s.summarizer = summary.New(g, summary.WithPhaseRules(s.phaseRules))

	if s.manager == nil {
		s.state = s.engine.NewState()
		return s, nil
	}

	state, err := s.manager.Restore(ctx, s.id, s.engine.CheckState)
	switch {
	case err == nil:
		s.state = state
	case isRecoverable(err):
		if _, mismatch := err.(*domain.RestoreMismatchError); mismatch {
			metrics.RestoreFallbacks.Inc()
		}
		s.state = s.engine.NewState()
		if err := s.manager.Save(ctx, s.id, s.state); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s, nil
}

// isRecoverable reports whether a restore failure means "start fresh" rather
// than a hard storage fault.
func isRecoverable(err error) bool {
	if err == domain.ErrSessionNotFound {
		return true
	}
	_, mismatch := err.(*domain.RestoreMismatchError)
	return mismatch
}

// ID returns the session's persistence key.
func (s *Session) ID() string {
	return s.id
}

// Graph returns the validated graph this session walks.
func (s *Session) Graph() *graph.Graph {
	return s.engine.Graph()
}

// State returns a copy of the traversal state, for inspection and
// host-driven rendering (e.g. the map view's visited overlay).
func (s *Session) State() *domain.State {
	return s.state.Clone()
}

// Current returns the node the session is positioned at.
func (s *Session) Current() domain.Node {
	return s.state.Current()
}

// Options returns the ordered selectable choices at the current node.
func (s *Session) Options() []domain.Choice {
	return s.engine.Choices(s.state)
}

// Advance resolves label against the current choices and moves forward.
//
// Entering a terminal node assembles the completion record, hands it to the
// configured sink, and attaches the sink's correlation token. The record is
// produced exactly once per terminal transition; sink failures are logged
// and never block traversal, so the record is still returned (without a
// token) and the user may still Back out of a completed flow.
func (s *Session) Advance(ctx context.Context, label string) (*domain.CompletionRecord, error) {
	wasTerminal := s.engine.IsTerminal(s.state)
	from := s.state.CurrentID

	moved, err := s.engine.Advance(s.state, label)
	if err != nil {
		if _, invalid := err.(*domain.InvalidChoiceError); invalid {
			metrics.InvalidChoices.Inc()
		}
		return nil, err
	}
	if !moved {
		return nil, nil
	}

	metrics.Advances.Inc()
	s.emitStep(ctx, s.hooks.OnAdvance, domain.EventAdvance, from, label)
	s.snapshot(ctx)

	if !wasTerminal && s.engine.IsTerminal(s.state) {
		return s.complete(ctx), nil
	}
	return nil, nil
}

// Back rewinds the most recent step. Popping the start node is a no-op.
func (s *Session) Back(ctx context.Context) error {
	from := s.state.CurrentID
	if !s.engine.Back(s.state) {
		return nil
	}

	metrics.Rewinds.Inc()
	s.emitStep(ctx, s.hooks.OnBack, domain.EventBack, from, "")
	s.snapshot(ctx)
	return nil
}

// Reset restores the session to its initial state and clears persisted
// session state. Idempotent.
func (s *Session) Reset(ctx context.Context) error {
	s.engine.Reset(s.state)
	s.emitStep(ctx, s.hooks.OnReset, domain.EventReset, "", "")

	if s.manager != nil {
		if err := s.manager.Delete(ctx, s.id); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns the read-only projection of the session.
func (s *Session) Summary() summary.Report {
	return s.summarizer.Summarize(s.state)
}

// complete assembles the completion record and runs the sink pipeline.
func (s *Session) complete(ctx context.Context) *domain.CompletionRecord {
	terminal := s.state.Current()

	answers := make(map[string]string, len(s.state.Decisions))
	for _, d := range s.state.Decisions {
		label := d.When
		if label == "" {
			label = domain.FallbackLabel
		}
		answers[d.From] = label
	}

	record := &domain.CompletionRecord{
		Classification: summary.Classification(terminal),
		Narrative:      s.summarizer.Narrative(s.state),
		Forms:          s.summarizer.Forms(s.state),
		Answers:        answers,
		Phase:          s.summarizer.Phase(s.state),
		Trail:          s.state.VisitedIDs(),
		CompletedAt:    time.Now().UTC(),
	}

	switch {
	case s.sink == nil:
		metrics.Completions.WithLabelValues("none").Inc()
	default:
		token, err := s.sink(ctx, record)
		if err != nil {
			metrics.Completions.WithLabelValues("failed").Inc()
			s.logger.Error("completion sink failed", "session_id", s.id, "node", terminal.ID, "err", err)
		} else {
			metrics.Completions.WithLabelValues("ok").Inc()
			record.CorrelationToken = token
		}
	}

	if s.hooks.OnComplete != nil {
		s.hooks.OnComplete(ctx, record)
	}
	return record
}

// snapshot persists the state after a transition. Storage trouble is logged,
// not surfaced: a kiosk must keep walking even if the snapshot medium is
// briefly unavailable.
func (s *Session) snapshot(ctx context.Context) {
	if s.manager == nil {
		return
	}
	if err := s.manager.Save(ctx, s.id, s.state); err != nil {
		s.logger.Warn("failed to snapshot session", "session_id", s.id, "err", err)
	}
}

func (s *Session) emitStep(ctx context.Context, hook func(context.Context, *domain.StepEvent), typ domain.EventType, from, label string) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		Timestamp: time.Now().UTC(),
		Type:      typ,
		SessionID: s.id,
		From:      from,
		To:        s.state.CurrentID,
		Label:     label,
	})
}

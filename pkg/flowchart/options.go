package flowchart

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/flowchart/pkg/flowchart/config"
	"github.com/randalmurphal/flowchart/pkg/flowchart/observability"
)

// Option configures a Store at construction time.
type Option func(*Store)

// WithHistoryLimit bounds the undo stack to the n most recent
// snapshots. Default: 0 (unbounded).
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.hist.limit = n
		}
	}
}

// WithValidationEnabled sets whether mutations revalidate
// automatically. Default: true.
func WithValidationEnabled(enabled bool) Option {
	return func(s *Store) {
		s.validationEnabled = enabled
	}
}

// WithActiveConnectorStyle sets the initial style for new edges.
// Default: StyleStep.
func WithActiveConnectorStyle(style ConnectorStyle) Option {
	return func(s *Store) {
		if style.Valid() {
			s.activeStyle = style
		}
	}
}

// WithSettings applies loaded editor settings: connector style,
// validation toggle, and history limit.
func WithSettings(st config.Settings) Option {
	return func(s *Store) {
		if style := ConnectorStyle(st.ConnectorStyle); style.Valid() {
			s.activeStyle = style
		}
		s.validationEnabled = st.ValidationEnabled
		if st.HistoryLimit > 0 {
			s.hist.limit = st.HistoryLimit
		}
		s.author = st.Author
	}
}

// WithAuthor sets the author recorded on fresh document metadata.
// Default: "user".
func WithAuthor(author string) Option {
	return func(s *Store) {
		s.author = author
	}
}

// WithLogger attaches a structured logger for store events.
// Default: nil (no logging).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics attaches a metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSpanManager attaches a span manager for tracing persistence and
// generation calls. Default: observability.NoopSpanManager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(s *Store) {
		if sm != nil {
			s.spans = sm
		}
	}
}

// WithClock overrides the clock used for modification timestamps.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the id generator for nodes and edges.
// Intended for tests; the default generates UUIDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

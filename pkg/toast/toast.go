package toast

import "time"

// Severity drives the toast's styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Position is where the client stacks toasts.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// Defaults shared by every toast the application raises.
const (
	DefaultDuration = 2 * time.Second
	DefaultPosition = PositionTop
)

// Toast is a transient, dismissible notification.
type Toast struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Severity    Severity      `json:"severity"`
	Duration    time.Duration `json:"duration"`
	Dismissible bool          `json:"dismissible"`
	Position    Position      `json:"position"`
}

// Option adjusts a toast after defaults are applied.
type Option func(*Toast)

func WithDescription(desc string) Option {
	return func(t *Toast) { t.Description = desc }
}

func WithDuration(d time.Duration) Option {
	return func(t *Toast) {
		if d > 0 {
			t.Duration = d
		}
	}
}

func WithPosition(p Position) Option {
	return func(t *Toast) { t.Position = p }
}

// New builds a dismissible toast shown at the top for two seconds.
func New(severity Severity, title string, opts ...Option) Toast {
	t := Toast{
		Title:       title,
		Severity:    severity,
		Duration:    DefaultDuration,
		Dismissible: true,
		Position:    DefaultPosition,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func Error(title string, opts ...Option) Toast {
	return New(SeverityError, title, opts...)
}

func Success(title string, opts ...Option) Toast {
	return New(SeveritySuccess, title, opts...)
}

func Warning(title string, opts ...Option) Toast {
	return New(SeverityWarning, title, opts...)
}

func Info(title string, opts ...Option) Toast {
	return New(SeverityInfo, title, opts...)
}

// IsZero reports whether no toast was set.
func (t Toast) IsZero() bool {
	return t.Title == "" && t.Severity == ""
}

// DurationMillis is the display time in milliseconds, as the client expects.
func (t Toast) DurationMillis() int64 {
	return t.Duration.Milliseconds()
}

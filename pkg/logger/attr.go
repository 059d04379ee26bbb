package logger

import (
	"log/slog"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error returns an "error" attribute. A nil error yields an empty Attr,
// which slog drops from the record.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func UserID(id any) slog.Attr {
	return slog.Any("user_id", id)
}

func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

func RequestID(id any) slog.Attr {
	return slog.Any("request_id", id)
}

func Email(email string) slog.Attr {
	return slog.String("email", email)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component tags the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names a discrete occurrence so records can be counted and alerted on.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Handler(name string) slog.Attr {
	return slog.String("handler", name)
}

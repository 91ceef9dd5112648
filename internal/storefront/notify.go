package storefront

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Notice is a user-facing message. Accessors that swallow a transport
// failure always emit one, so callers can tell "empty" from "failed".
type Notice struct {
	Level   Level
	Title   string
	Message string
	Err     error
	At      time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// LogNotifier writes notices to a slog logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	if notice.Err != nil || notice.Level == LevelError {
		n.logger.ErrorContext(ctx, notice.Message, "title", notice.Title, "error", notice.Err)
		return
	}
	n.logger.InfoContext(ctx, notice.Message, "title", notice.Title)
}

// NoticeBuffer keeps the most recent notices for later delivery and
// forwards each one to next, if set.
type NoticeBuffer struct {
	mu      sync.Mutex
	limit   int
	notices []Notice
	next    Notifier
}

func NewNoticeBuffer(limit int, next Notifier) *NoticeBuffer {
	if limit < 1 {
		limit = 1
	}
	return &NoticeBuffer{limit: limit, next: next}
}

func (b *NoticeBuffer) Notify(ctx context.Context, n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	b.mu.Lock()
	b.notices = append(b.notices, n)
	if over := len(b.notices) - b.limit; over > 0 {
		b.notices = append([]Notice(nil), b.notices[over:]...)
	}
	b.mu.Unlock()

	if b.next != nil {
		b.next.Notify(ctx, n)
	}
}

// Drain returns the buffered notices, oldest first, and empties the buffer.
func (b *NoticeBuffer) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

func notifyFailure(ctx context.Context, n Notifier, message string, err error) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notice{Level: LevelError, Title: "Error", Message: message, Err: err, At: time.Now()})
}

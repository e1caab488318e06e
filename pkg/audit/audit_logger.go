package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audit event
type EventType string

const (
	EventContactReceived     EventType = "contact_received"
	EventContactRejected     EventType = "contact_rejected"
	EventContactPersisted    EventType = "contact_persisted"
	EventPrimaryStoreFailed  EventType = "primary_store_failed"
	EventBackupWritten       EventType = "backup_written"
	EventBackupFailed        EventType = "backup_failed"
	EventNotificationSent    EventType = "notification_sent"
	EventNotificationSkipped EventType = "notification_skipped"
	EventNotificationFailed  EventType = "notification_failed"
	EventInternalError       EventType = "internal_error"
	EventRateLimitTriggered  EventType = "rate_limit_triggered"
	EventAdminLoginSuccess   EventType = "admin_login_success"
	EventAdminLoginFailed    EventType = "admin_login_failed"
	EventAdminLoginBlocked   EventType = "admin_login_blocked"
	EventContactUpdated      EventType = "contact_updated"
	EventContactDeleted      EventType = "contact_deleted"
)

// Event represents an audit event to be logged
type Event struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Severity     Severity               `json:"severity"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip", "contact_id", "admin"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Logger writes structured audit events through zap. A nil *Logger is a
// valid no-op logger.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	// Optional: DB persistence function
	persistFunc func(ctx context.Context, event Event) error
	pending     sync.WaitGroup
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// New builds an audit logger on a production zap config writing to stdout.
func New(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewWithZap(logger, serviceName, environment)
}

// NewWithZap wraps an existing zap logger.
func NewWithZap(z *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{
		zapLogger:   z,
		serviceName: serviceName,
		environment: environment,
	}
}

// Default returns the process-wide audit logger.
func Default() *Logger {
	defaultOnce.Do(func() {
		if defaultLogger == nil {
			defaultLogger = New("portfolio-contact-backend", environment())
		}
	})
	return defaultLogger
}

// SetDefault replaces the process-wide audit logger.
func SetDefault(l *Logger) {
	defaultOnce.Do(func() {})
	defaultLogger = l
}

// SetPersistFunc sets the function to persist events to database
func (l *Logger) SetPersistFunc(f func(ctx context.Context, event Event) error) {
	if l == nil {
		return
	}
	l.persistFunc = f
}

// Log logs an audit event
func (l *Logger) Log(ctx context.Context, event Event) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = l.serviceName
	event.Environment = l.environment
	event.Severity = GetSeverity(event.Event)

	level := levelFor(event.Severity)
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	l.zapLogger.Log(level, string(event.Event), fields...)

	if l.persistFunc != nil {
		l.pending.Add(1)
		go func(e Event) {
			defer l.pending.Done()
			// The request context may already be canceled.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := l.persistFunc(ctx, e); err != nil {
				l.zapLogger.Error("Failed to persist audit event", zap.Error(err))
			}
		}(event)
	}
}

// Sync waits for pending persistence and flushes buffered log entries.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	l.pending.Wait()
	return l.zapLogger.Sync()
}

func levelFor(s Severity) zapcore.Level {
	switch s {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityWARN:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// --- Contact pipeline events ---

func (l *Logger) ContactReceived(ctx context.Context, requestID, email string) {
	l.Log(ctx, Event{
		Event:        EventContactReceived,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		RequestID:    requestID,
	})
}

func (l *Logger) ContactRejected(ctx context.Context, requestID string, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	l.Log(ctx, Event{
		Event:     EventContactRejected,
		RequestID: requestID,
		Details:   map[string]interface{}{"fields": names},
	})
}

func (l *Logger) ContactPersisted(ctx context.Context, requestID string, id int64) {
	l.Log(ctx, Event{
		Event:        EventContactPersisted,
		SubjectType:  "contact_id",
		SubjectValue: formatID(id),
		RequestID:    requestID,
	})
}

func (l *Logger) PrimaryStoreFailed(ctx context.Context, requestID, email string, err error) {
	l.Log(ctx, Event{
		Event:        EventPrimaryStoreFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		RequestID:    requestID,
		Details:      map[string]interface{}{"error": err.Error()},
	})
}

func (l *Logger) BackupWritten(ctx context.Context, requestID string, dbSaved bool) {
	l.Log(ctx, Event{
		Event:     EventBackupWritten,
		RequestID: requestID,
		Details:   map[string]interface{}{"db_saved": dbSaved},
	})
}

func (l *Logger) BackupFailed(ctx context.Context, requestID, email string, dbSaved bool, err error) {
	l.Log(ctx, Event{
		Event:        EventBackupFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		RequestID:    requestID,
		Details:      map[string]interface{}{"db_saved": dbSaved, "error": err.Error()},
	})
}

func (l *Logger) NotificationSent(ctx context.Context, kind, recipient string) {
	l.Log(ctx, Event{
		Event:        EventNotificationSent,
		SubjectType:  "email",
		SubjectValue: MaskEmail(recipient),
		Details:      map[string]interface{}{"kind": kind},
	})
}

func (l *Logger) NotificationSkipped(ctx context.Context, transport string) {
	l.Log(ctx, Event{
		Event:   EventNotificationSkipped,
		Details: map[string]interface{}{"transport": transport},
	})
}

func (l *Logger) NotificationFailed(ctx context.Context, kind, recipient string, err error) {
	l.Log(ctx, Event{
		Event:        EventNotificationFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(recipient),
		Details:      map[string]interface{}{"kind": kind, "error": err.Error()},
	})
}

func (l *Logger) InternalError(ctx context.Context, requestID string, cause interface{}) {
	l.Log(ctx, Event{
		Event:     EventInternalError,
		RequestID: requestID,
		Details:   map[string]interface{}{"cause": stringify(cause)},
	})
}

// --- HTTP and admin events ---

// RateLimitTriggered logs when rate limiting is triggered
func (l *Logger) RateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	l.Log(ctx, Event{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (l *Logger) AdminLoginSuccess(ctx context.Context, username, requestID string) {
	l.Log(ctx, Event{
		Event:        EventAdminLoginSuccess,
		SubjectType:  "admin",
		SubjectValue: username,
		RequestID:    requestID,
	})
}

func (l *Logger) AdminLoginFailed(ctx context.Context, username, requestID, reason string) {
	l.Log(ctx, Event{
		Event:        EventAdminLoginFailed,
		SubjectType:  "admin",
		SubjectValue: HashValue(username),
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

// AdminLoginBlocked records a temporary lockout after repeated failures.
func (l *Logger) AdminLoginBlocked(ctx context.Context, username, requestID string, attempts int, blockFor time.Duration) {
	l.Log(ctx, Event{
		Event:        EventAdminLoginBlocked,
		SubjectType:  "admin",
		SubjectValue: HashValue(username),
		RequestID:    requestID,
		Details: map[string]interface{}{
			"attempts":         attempts,
			"block_duration_m": int(blockFor.Minutes()),
		},
	})
}

func (l *Logger) ContactUpdated(ctx context.Context, admin string, ids []int64, isRead bool) {
	l.Log(ctx, Event{
		Event:        EventContactUpdated,
		SubjectType:  "admin",
		SubjectValue: admin,
		RequestID:    requestIDFrom(ctx),
		Details:      map[string]interface{}{"ids": ids, "is_read": isRead},
	})
}

func (l *Logger) ContactDeleted(ctx context.Context, admin string, id int64) {
	l.Log(ctx, Event{
		Event:        EventContactDeleted,
		SubjectType:  "contact_id",
		SubjectValue: formatID(id),
		RequestID:    requestIDFrom(ctx),
		Details:      map[string]interface{}{"admin": admin},
	})
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return email[:1] + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}

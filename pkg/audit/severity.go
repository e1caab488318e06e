package audit

// Severity represents the severity level of an audit event.
// It is derived from EventType, never supplied by the caller.
type Severity string

const (
	SeverityINFO     Severity = "INFO"
	SeverityWARN     Severity = "WARN"
	SeverityHIGH     Severity = "HIGH"
	SeverityCRITICAL Severity = "CRITICAL"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	// INFO - Normal operations
	EventContactReceived:   SeverityINFO,
	EventContactPersisted:  SeverityINFO,
	EventBackupWritten:     SeverityINFO,
	EventNotificationSent:  SeverityINFO,
	EventAdminLoginSuccess: SeverityINFO,
	EventContactUpdated:    SeverityINFO,

	// WARN - Degraded but recoverable
	EventContactRejected:     SeverityWARN,
	EventPrimaryStoreFailed:  SeverityWARN,
	EventNotificationSkipped: SeverityWARN,
	EventNotificationFailed:  SeverityWARN,
	EventRateLimitTriggered:  SeverityWARN,
	EventAdminLoginFailed:    SeverityWARN,

	// HIGH - Data at risk or destructive changes
	EventBackupFailed:      SeverityHIGH,
	EventContactDeleted:    SeverityHIGH,
	EventAdminLoginBlocked: SeverityHIGH,

	// CRITICAL
	EventInternalError: SeverityCRITICAL,
}

// GetSeverity returns the severity for an event type.
// Unknown events default to WARN.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityWARN
}

// IsHighSeverity returns true if the severity is HIGH or CRITICAL
func IsHighSeverity(s Severity) bool {
	return s == SeverityHIGH || s == SeverityCRITICAL
}

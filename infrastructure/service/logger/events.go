package logger

import (
	"context"
	"fmt"
	"time"
)

// Event kinds tagged on helper-emitted lines as event_type.
const (
	eventSecurity    = "security"
	eventPerformance = "performance"
	eventAudit       = "audit"
)

func tagged(kind string, fields map[string]interface{}) map[string]interface{} {
	out := merge(fields, nil)
	out["event_type"] = kind
	return out
}

// LogSecurityEvent logs auth failures, rate limit hits and failed bot checks.
// HIGH goes out at error level, MEDIUM at warn, anything else at info.
func LogSecurityEvent(ctx context.Context, log Logger, event, severity string, fields map[string]interface{}) {
	f := tagged(eventSecurity, fields)
	f["security_event"] = event
	f["severity"] = severity

	msg := "Security event: " + event
	switch severity {
	case "HIGH":
		log.Error(ctx, msg, nil, f)
	case "MEDIUM":
		log.Warn(ctx, msg, f)
	default:
		log.Info(ctx, msg, f)
	}
}

func LogPerformance(ctx context.Context, log Logger, operation string, took time.Duration, fields map[string]interface{}) {
	f := tagged(eventPerformance, fields)
	f["operation"] = operation
	f["duration_ms"] = took.Milliseconds()

	log.Info(ctx, fmt.Sprintf("%s took %s", operation, took), f)
}

// LogAuditEvent logs the outcome of an audit trail write. A nil err means
// the record was stored.
func LogAuditEvent(ctx context.Context, log Logger, action, entityType, entityID, userID string, err error, fields map[string]interface{}) {
	f := tagged(eventAudit, fields)
	f["action"] = action
	f["entity_type"] = entityType
	f["entity_id"] = entityID
	f["user_id"] = userID

	if err != nil {
		log.Error(ctx, "Audit write failed: "+action, err, f)
		return
	}
	log.Debug(ctx, "Audit recorded: "+action, f)
}

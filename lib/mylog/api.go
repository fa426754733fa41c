package mylog

import "context"

// Severity values match the Cloud Logging severities so structured entries need no mapping.
type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// New creates a logger for a component. It writes JSON entries when running on GCP and plain lines otherwise.
var New func(componentName string) Logger

// Logger labels every line with a trace label, usually the order code or owner uid being worked on.
type Logger interface {
	Log(c context.Context, traceLabel string, severity Severity, format string, a ...any)
}

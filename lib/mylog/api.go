package mylog

import "context"

type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// New creates a logger for the named component; the implementation depends on the runtime environment.
var New func(componentName string) Logger

//go:generate mockgen -source=api.go -package mylog -destination logger_mock.go Logger
type Logger interface {
	Log(c context.Context, traceLabel string, severity Severity, format string, a ...any)
}

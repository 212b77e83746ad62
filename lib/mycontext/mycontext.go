package mycontext

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// CtxTraceContext is a context key for the trace context (used by mylog)
type CtxTraceContext struct{}

// ContextFromHTTPRequest derives the request context and attaches the cloud trace id, if any.
func ContextFromHTTPRequest(r *http.Request) context.Context {
	return WithTrace(r.Context(), os.Getenv("GOOGLE_CLOUD_PROJECT"), r.Header.Get("X-Cloud-Trace-Context"))
}

func WithTrace(c context.Context, projectID string, traceContext string) context.Context {
	var trace string

	traceParts := strings.Split(traceContext, "/")
	if len(traceParts) > 0 && len(traceParts[0]) > 0 {
		trace = fmt.Sprintf("projects/%s/traces/%s", projectID, traceParts[0])
	}

	return context.WithValue(c, CtxTraceContext{}, trace)
}

func TraceFromContext(c context.Context) string {
	trace, ok := c.Value(CtxTraceContext{}).(string)
	if !ok {
		return ""
	}
	return trace
}

package remote

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// Logger provides structured logging for remote operations
type Logger struct {
	enabled bool
	verbose bool
	out     *log.Logger
}

// NewLogger creates a new logger instance
func NewLogger() *Logger {
	return &Logger{
		enabled: os.Getenv("GAMECACHE_LOG") != "",
		verbose: os.Getenv("GAMECACHE_VERBOSE") != "",
		out:     log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetOutput redirects log lines
func (l *Logger) SetOutput(w io.Writer) {
	l.out.SetOutput(w)
}

// LogOperation logs a remote operation with timing
func (l *Logger) LogOperation(operation string, fn func() error) error {
	if !l.enabled {
		return fn()
	}

	start := time.Now()
	l.Infof("Starting: %s", operation)

	err := fn()
	duration := time.Since(start)

	if err != nil {
		l.Errorf("Failed: %s (took %v) - %v", operation, duration, err)
	} else {
		l.Infof("Completed: %s (took %v)", operation, duration)
	}

	return err
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.enabled {
		l.out.Printf("[INFO] "+format, args...)
	}
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.enabled {
		l.out.Printf("[ERROR] "+format, args...)
	}
}

// Debugf logs a formatted debug message (only if verbose mode is enabled)
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.enabled && l.verbose {
		l.out.Printf("[DEBUG] "+format, args...)
	}
}

// defaultLogger is the package-level logger
var defaultLogger = NewLogger()

// EnableLogging turns on the package logger regardless of GAMECACHE_LOG;
// verbose also enables debug lines
func EnableLogging(verbose bool) {
	defaultLogger.enabled = true
	defaultLogger.verbose = defaultLogger.verbose || verbose
}

// SetLogOutput redirects the package logger
func SetLogOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// LogOperation logs fn with timing on the package logger
func LogOperation(operation string, fn func() error) error {
	return defaultLogger.LogOperation(operation, fn)
}

// Debugf logs a debug line on the package logger
func Debugf(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

// LogAPICall logs GitHub API calls for observability
func LogAPICall(method, endpoint string, statusCode int, duration time.Duration) {
	if !defaultLogger.enabled {
		return
	}

	switch {
	case statusCode == 0:
		defaultLogger.Errorf("API %s %s -> no response (%v)", method, endpoint, duration)
	case statusCode >= 200 && statusCode < 300:
		defaultLogger.Infof("API %s %s -> %d (%v)", method, endpoint, statusCode, duration)
	case statusCode >= 400:
		defaultLogger.Errorf("API %s %s -> %d (%v)", method, endpoint, statusCode, duration)
	default:
		defaultLogger.Infof("API %s %s -> %d (%v)", method, endpoint, statusCode, duration)
	}
}

// LogTokenResolution logs where the GitHub token was found
func LogTokenResolution(source string) {
	if !defaultLogger.enabled {
		return
	}
	defaultLogger.Infof("GitHub token resolved from: %s", source)
}

// MetricsCollector collects metrics about API usage
type MetricsCollector struct {
	mu              sync.Mutex
	TotalCalls      int
	SuccessfulCalls int
	FailedCalls     int
	RateLimitHits   int
	TotalDuration   time.Duration
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordCall records an API call. A zero status code is a call that got
// no response.
func (m *MetricsCollector) RecordCall(statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalCalls++
	m.TotalDuration += duration

	if statusCode >= 200 && statusCode < 300 {
		m.SuccessfulCalls++
	} else {
		m.FailedCalls++
	}

	if statusCode == http.StatusTooManyRequests {
		m.RateLimitHits++
	}
}

// Report returns a metrics report
func (m *MetricsCollector) Report() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.TotalCalls == 0 {
		return "No API calls made"
	}

	avgDuration := m.TotalDuration / time.Duration(m.TotalCalls)
	successRate := float64(m.SuccessfulCalls) / float64(m.TotalCalls) * 100

	return fmt.Sprintf(
		"API Metrics:\n"+
			"  Total calls: %d\n"+
			"  Successful: %d (%.1f%%)\n"+
			"  Failed: %d\n"+
			"  Rate limit hits: %d\n"+
			"  Avg duration: %v",
		m.TotalCalls,
		m.SuccessfulCalls,
		successRate,
		m.FailedCalls,
		m.RateLimitHits,
		avgDuration,
	)
}

// loggingTransport logs and counts every request it carries
type loggingTransport struct {
	base    http.RoundTripper
	metrics *MetricsCollector
}

// NewLoggingTransport wraps base so each API call is logged with
// LogAPICall and recorded in metrics (which may be nil)
func NewLoggingTransport(base http.RoundTripper, metrics *MetricsCollector) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingTransport{base: base, metrics: metrics}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	LogAPICall(req.Method, req.URL.Path, status, duration)
	if t.metrics != nil {
		t.metrics.RecordCall(status, duration)
	}

	return resp, err
}

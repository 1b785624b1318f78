package plugin

import "strings"

// Severity is a monitoring-plugin status. The values double as process exit
// codes, and the ordering doubles as an aggregation lattice: combining two
// results keeps the more severe one.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityUnknown
)

// String returns the display name used in plugin output.
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the numeric exit code for the severity.
func (s Severity) ExitCode() int {
	return int(s)
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// Result is the outcome of a single check: a severity, zero or more alert
// lines (one per triggered rule) and the always-present summary lines.
type Result struct {
	Severity Severity
	Alerts   []string
	Summary  []string
}

// NewResult returns an empty OK result.
func NewResult() *Result {
	return &Result{Severity: SeverityOK}
}

// AddAlert records a triggered rule and raises the result's severity if the
// alert is more severe than what has been seen so far.
func (r *Result) AddAlert(sev Severity, msg string) {
	r.Severity = MaxSeverity(r.Severity, sev)
	r.Alerts = append(r.Alerts, msg)
}

// AddSummary appends a summary line. Summary lines never affect severity.
func (r *Result) AddSummary(msg string) {
	r.Summary = append(r.Summary, msg)
}

// Merge combines check results in order: severities via maximum, alert lines
// before summary lines, both in check-execution order.
func Merge(results ...*Result) *Result {
	merged := NewResult()
	for _, res := range results {
		merged.Severity = MaxSeverity(merged.Severity, res.Severity)
		merged.Alerts = append(merged.Alerts, res.Alerts...)
	}
	for _, res := range results {
		merged.Summary = append(merged.Summary, res.Summary...)
	}
	return merged
}

// Line renders the single stdout line the monitoring framework consumes:
// the severity name, then alerts, then summaries, joined with ", ".
func (r *Result) Line() string {
	parts := make([]string, 0, 1+len(r.Alerts)+len(r.Summary))
	parts = append(parts, r.Severity.String())
	parts = append(parts, r.Alerts...)
	parts = append(parts, r.Summary...)
	return strings.Join(parts, ", ")
}

package logging

// LogEntry represents a structured log record.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Evolution-specific fields
	Generation int    // Generation counter at the time of the log, 0 when not applicable
	GenomeID   string // Genome being operated on, empty when not applicable

	// General structured data
	Fields map[string]interface{}
}

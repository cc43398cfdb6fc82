package logger

// Logger defines the logging interface injected into clipfinder components.
type Logger interface {
	Debug(message string, component string, data map[string]interface{})
	Info(message string, component string, data map[string]interface{})
	Warn(message string, component string, data map[string]interface{})
	Error(message string, component string, data map[string]interface{})
}

// DefaultLogger forwards to the global zerolog logger configured by Init.
type DefaultLogger struct{}

// NewLogger creates a new instance of the default logger
func NewLogger() Logger {
	return &DefaultLogger{}
}

func (l *DefaultLogger) Debug(message string, component string, data map[string]interface{}) {
	Debug(message, component, data)
}

func (l *DefaultLogger) Info(message string, component string, data map[string]interface{}) {
	Info(message, component, data)
}

func (l *DefaultLogger) Warn(message string, component string, data map[string]interface{}) {
	Warn(message, component, data)
}

func (l *DefaultLogger) Error(message string, component string, data map[string]interface{}) {
	Error(message, component, data)
}

// Nop discards everything. Used by tests and library callers that want silence.
type Nop struct{}

func (Nop) Debug(string, string, map[string]interface{}) {}
func (Nop) Info(string, string, map[string]interface{})  {}
func (Nop) Warn(string, string, map[string]interface{})  {}
func (Nop) Error(string, string, map[string]interface{}) {}

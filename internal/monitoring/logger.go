package monitoring

import "log"

// Logf is the diagnostic logger shared by the loader, pipeline and archive.
// It defaults to log.Printf. Tools and tests redirect or mute it with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

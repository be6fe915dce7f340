package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ANSI color codes, kept for Section/Banner which print straight to
// stdout rather than through logrus.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[37m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Log levels, kept numeric for API compatibility with callers written
// against the original facade; Success maps onto logrus's Info level
// since logrus has no dedicated success level.
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSuccess
)

var base = logrus.New()

func init() {
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	base.SetLevel(logrus.InfoLevel)
}

// SetLevel sets the minimum log level using this package's level
// constants.
func SetLevel(level int) {
	switch level {
	case LevelDebug:
		base.SetLevel(logrus.DebugLevel)
	case LevelWarn:
		base.SetLevel(logrus.WarnLevel)
	case LevelError:
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}
}

// SetTimeFormat sets the timestamp layout used in logged lines.
func SetTimeFormat(format string) {
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: format,
	})
}

// ShowTime toggles timestamps in logged lines.
func ShowTime(show bool) {
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    show,
		DisableTimestamp: !show,
	})
}

// Debug logs a debug-level message.
func Debug(format string, args ...interface{}) {
	base.Debugf(format, args...)
}

// Info logs an info-level message.
func Info(format string, args ...interface{}) {
	base.Infof(format, args...)
}

// Warn logs a warning-level message.
func Warn(format string, args ...interface{}) {
	base.Warnf(format, args...)
}

// Error logs an error-level message.
func Error(format string, args ...interface{}) {
	base.Errorf(format, args...)
}

// Success logs a successful-outcome message at info level, tagged so it
// is visually distinct in the rendered line.
func Success(format string, args ...interface{}) {
	base.WithField("outcome", "success").Infof(format, args...)
}

// Fatal logs a fatal message and exits the process.
func Fatal(format string, args ...interface{}) {
	base.Fatalf(format, args...)
}

// InfoCyan logs an info-level message flagged for highlighted display.
func InfoCyan(format string, args ...interface{}) {
	base.WithField("highlight", true).Infof(format, args...)
}

// Section prints a section header directly to stdout; it is cosmetic
// console output, not a structured log line, so it bypasses logrus.
func Section(title string) {
	border := "═══════════════════════════════════════════════════════════"
	fmt.Printf("\n%s╔%s╗%s\n", ColorCyan, border, ColorReset)
	fmt.Printf("%s║%s %-57s %s║%s\n", ColorCyan, ColorReset, title, ColorCyan, ColorReset)
	fmt.Printf("%s╚%s╝%s\n\n", ColorCyan, border, ColorReset)
}

// Banner prints the startup banner directly to stdout.
func Banner(title, version string) {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║   ███╗   ███╗███████╗████████╗ █████╗ ██╗   ██╗███████╗   ║
║   ████╗ ████║██╔════╝╚══██╔══╝██╔══██╗██║   ██║██╔════╝   ║
║   ██╔████╔██║█████╗     ██║   ███████║██║   ██║█████╗     ║
║   ██║╚██╔╝██║██╔══╝     ██║   ██╔══██║╚██╗ ██╔╝██╔══╝     ║
║   ██║ ╚═╝ ██║███████╗   ██║   ██║  ██║ ╚████╔╝ ███████╗   ║
║   ╚═╝     ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═╝  ╚═══╝  ╚══════╝   ║
║                                                           ║
║              %s%-37s%s║
║                    %sVersion %-7s%s                      ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, ColorCyan, title, ColorReset, ColorGreen, version, ColorReset)
}

// SetOutput redirects logrus output, primarily for tests.
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	base.SetOutput(w)
}

package logsvc

import (
	"log"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

// StdLogger only writes to the wrapped logger.
type StdLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger, debug bool) *StdLogger {
	return &StdLogger{std: std, debug: debug}
}

// New picks the rollbar logger when a token is configured.
func New(std *log.Logger, conf *core.Config) core.Logger {
	if conf.RollbarToken != "" {
		return NewRollbarLogger(std, conf)
	}
	return NewStdLogger(std, conf.Debug)
}

func (l StdLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		printTo(l.std, "DEBUG "+msg, args)
	}
}

func (l StdLogger) Info(msg string, args ...interface{}) { printTo(l.std, "INFO "+msg, args) }

func (l StdLogger) Warn(msg string, args ...interface{}) { printTo(l.std, "WARN "+msg, args) }

func (l StdLogger) Error(msg string, args ...interface{}) { printTo(l.std, "ERROR "+msg, args) }

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	printTo(l.std, "FATAL "+msg, args)
	l.std.Fatal(msg)
}

func printTo(std *log.Logger, msg string, args []interface{}) {
	std.Println(msg)
	for _, arg := range args {
		if sess, ok := arg.(*session.Session); ok {
			if sess != nil {
				std.Printf("user: %s (%s)\n", sess.Profile.UserName, sess.UserID())
			}
			continue
		}
		std.Printf("%+v\n", arg)
	}
}

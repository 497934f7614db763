package core

// Logger is the logging surface the renderer depends on.
// *logging.Logger from github.com/op/go-logging satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Noticef(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

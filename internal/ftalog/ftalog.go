// Package ftalog is the structured leveled logger the analyzer and its
// supporting packages use to report training progress, reflection
// decisions, and reference-data loading problems. It is deliberately small
// next to a general-purpose logging package: one writer set, one level, and
// RFC5424-formatted structured fields so log lines are greppable and
// machine parseable without a side-channel schema.
package ftalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/crewjam/rfc5424"
	"github.com/mosaicdata/fta/internal/ftalog/rotate"
)

type Level int

const (
	OFF Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case OFF:
		return "OFF"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	}
	return "UNKNOWN"
}

func (l Level) valid() bool {
	return l >= OFF && l <= FATAL
}

func (l Level) priority() rfc5424.Priority {
	switch l {
	case DEBUG:
		return rfc5424.User | rfc5424.Debug
	case INFO:
		return rfc5424.User | rfc5424.Info
	case WARN:
		return rfc5424.User | rfc5424.Warning
	case ERROR:
		return rfc5424.User | rfc5424.Error
	case FATAL:
		return rfc5424.User | rfc5424.Emergency
	}
	return rfc5424.User | rfc5424.Debug
}

// LevelFromString parses a config-file-friendly level name.
func LevelFromString(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "OFF":
		return OFF, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	}
	return OFF, ErrInvalidLevel
}

var (
	ErrNotOpen      = errors.New("logger is not open")
	ErrInvalidLevel = errors.New("log level is invalid")
)

const defaultDepth = 3

// Logger writes leveled, RFC5424-structured log lines to one or more
// writers. It is safe for concurrent use: an analyzer profiling several
// columns under an errgroup shares a single *Logger.
type Logger struct {
	hostname string
	appname  string

	mtx  sync.Mutex
	wtrs []io.WriteCloser
	lvl  Level
	hot  bool
}

// New wraps wtr at level INFO. The appname is taken from os.Args[0].
func New(wtr io.WriteCloser) *Logger {
	l := &Logger{wtrs: []io.WriteCloser{wtr}, lvl: INFO, hot: true}
	l.guessHostnameAppname()
	return l
}

// NewFile opens (or creates) f in append mode and wraps it.
func NewFile(f string) (*Logger, error) {
	fout, err := os.OpenFile(f, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0660)
	if err != nil {
		return nil, err
	}
	return New(fout), nil
}

// NewRotatingFile opens (or creates) f in append mode behind a size-
// triggered rotator: once the file crosses maxSizeMB it rolls to a numbered,
// gzip-compressed history, keeping at most maxHistory old generations. Long-
// running ingestion processes that profile many columns over a long time
// want this in place of NewFile so the diagnostic log doesn't grow forever.
func NewRotatingFile(f string, maxSizeMB int, maxHistory uint) (*Logger, error) {
	fr, err := rotate.OpenEx(f, 0660, int64(maxSizeMB)*1024*1024, maxHistory, true)
	if err != nil {
		return nil, err
	}
	return New(fr), nil
}

// Discard returns a logger that drops everything written to it; callers
// that never configured a logger get one of these instead of a nil check at
// every call site.
func Discard() *Logger {
	return New(discardCloser{})
}

func (l *Logger) guessHostnameAppname() {
	if h, err := os.Hostname(); err == nil {
		l.hostname = trimLength(255, h)
	}
	if args := os.Args; len(args) > 0 {
		exe := filepath.Base(args[0])
		if ext := filepath.Ext(exe); len(ext) > 0 && len(ext) < len(exe) {
			exe = strings.TrimSuffix(exe, ext)
		}
		l.appname = trimLength(48, exe)
	}
}

func (l *Logger) ready() error {
	if !l.hot || len(l.wtrs) == 0 {
		return ErrNotOpen
	}
	return nil
}

// Close closes the logger and all its writers.
func (l *Logger) Close() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if err := l.ready(); err != nil {
		return err
	}
	l.hot = false
	var err error
	for _, w := range l.wtrs {
		if lerr := w.Close(); lerr != nil {
			err = lerr
		}
	}
	return err
}

// AddWriter adds an additional writer; every subsequent log line goes to it
// as well as the writers already registered.
func (l *Logger) AddWriter(wtr io.WriteCloser) error {
	if wtr == nil {
		return errors.New("nil writer")
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if err := l.ready(); err != nil {
		return err
	}
	l.wtrs = append(l.wtrs, wtr)
	return nil
}

// SetLevel changes the minimum level that reaches the writers.
func (l *Logger) SetLevel(lvl Level) error {
	if !lvl.valid() {
		return ErrInvalidLevel
	}
	l.mtx.Lock()
	l.lvl = lvl
	l.mtx.Unlock()
	return nil
}

func (l *Logger) GetLevel() Level {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.lvl
}

func (l *Logger) Debugf(f string, args ...interface{}) error { return l.outputf(defaultDepth, DEBUG, f, args...) }
func (l *Logger) Infof(f string, args ...interface{}) error  { return l.outputf(defaultDepth, INFO, f, args...) }
func (l *Logger) Warnf(f string, args ...interface{}) error  { return l.outputf(defaultDepth, WARN, f, args...) }
func (l *Logger) Errorf(f string, args ...interface{}) error { return l.outputf(defaultDepth, ERROR, f, args...) }

// Debug etc. write a structured entry: msg is the human-readable text, sds
// are additional key/value fields (column name, sample index, format
// string candidates, ...) carried as RFC5424 structured data.
func (l *Logger) Debug(msg string, sds ...rfc5424.SDParam) error {
	return l.outputStructured(defaultDepth, DEBUG, msg, sds...)
}
func (l *Logger) Info(msg string, sds ...rfc5424.SDParam) error {
	return l.outputStructured(defaultDepth, INFO, msg, sds...)
}
func (l *Logger) Warn(msg string, sds ...rfc5424.SDParam) error {
	return l.outputStructured(defaultDepth, WARN, msg, sds...)
}
func (l *Logger) Error(msg string, sds ...rfc5424.SDParam) error {
	return l.outputStructured(defaultDepth, ERROR, msg, sds...)
}

func (l *Logger) outputf(depth int, lvl Level, f string, args ...interface{}) error {
	l.mtx.Lock()
	skip := l.lvl == OFF || lvl < l.lvl
	l.mtx.Unlock()
	if skip {
		return nil
	}
	ts := time.Now()
	ln := l.genRfcOutput(ts, callLoc(depth), lvl, fmt.Sprintf(f, args...))
	return l.writeOutput(ts, ln)
}

func (l *Logger) outputStructured(depth int, lvl Level, msg string, sds ...rfc5424.SDParam) error {
	l.mtx.Lock()
	skip := l.lvl == OFF || lvl < l.lvl
	l.mtx.Unlock()
	if skip {
		return nil
	}
	ts := time.Now()
	ln := l.genRfcOutput(ts, callLoc(depth), lvl, msg, sds...)
	return l.writeOutput(ts, ln)
}

func (l *Logger) genRfcOutput(ts time.Time, pfx string, lvl Level, msg string, sds ...rfc5424.SDParam) string {
	m := rfc5424.Message{
		Priority:  lvl.priority(),
		Timestamp: ts,
		Hostname:  trimLength(255, l.hostname),
		AppName:   trimLength(48, l.appname),
		MessageID: trimPathLength(32, pfx),
		Message:   []byte(msg),
	}
	if len(sds) > 0 {
		m.StructuredData = []rfc5424.StructuredData{{ID: "fta@1", Parameters: sds}}
	}
	b, err := m.MarshalBinary()
	if err != nil {
		return msg
	}
	return strings.TrimRight(string(b), "\n\t\r")
}

func (l *Logger) writeOutput(ts time.Time, ln string) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if err := l.ready(); err != nil {
		return err
	}
	var err error
	for _, w := range l.wtrs {
		if _, lerr := io.WriteString(w, ln); lerr != nil {
			err = lerr
		} else if _, lerr := io.WriteString(w, "\n"); lerr != nil {
			err = lerr
		}
	}
	return err
}

func callLoc(depth int) string {
	if _, file, line, ok := runtime.Caller(depth); ok {
		dir, file := filepath.Split(file)
		file = filepath.Join(filepath.Base(dir), file)
		return fmt.Sprintf("%s:%d", file, line)
	}
	return ""
}

// KV builds a structured-data field for one of the Logger methods that take
// rfc5424.SDParam, stringifying anything that isn't already a string.
func KV(name string, value interface{}) rfc5424.SDParam {
	switch v := value.(type) {
	case string:
		return rfc5424.SDParam{Name: name, Value: v}
	default:
		return rfc5424.SDParam{Name: name, Value: fmt.Sprintf("%v", value)}
	}
}

// KVErr is KV("error", err), the field every failure-path log line reaches
// for.
func KVErr(err error) rfc5424.SDParam {
	return KV("error", err)
}

type discardCloser struct{}

func (discardCloser) Write(b []byte) (int, error) { return len(b), nil }
func (discardCloser) Close() error                { return nil }

func trimLength(n int, s string) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func trimPathLength(n int, s string) string {
	if len(s) <= n {
		return s
	}
	return trimLength(n, filepath.Base(s))
}

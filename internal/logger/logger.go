package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/streakline/internal/constants"
)

// LevelEnvVar overrides the level chosen from the --debug flag.
const LevelEnvVar = "STREAKLINE_LOG_LEVEL"

var (
	// Logger is the process-wide logger. It stays nil until Init runs, and
	// every helper in this package is a no-op while it is nil.
	Logger *log.Logger

	logPath string
)

type Config struct {
	Debug     bool
	ConfigDir string
	// Quiet keeps all output in the log file even in debug mode, for
	// full-screen programs that own the terminal.
	Quiet bool
}

// Path returns the log file for a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// CurrentPath is the file the active logger writes to, or "" before Init.
func CurrentPath() string {
	return logPath
}

func Init(cfg Config) error {
	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	var out io.Writer = rotating
	if cfg.Debug && !cfg.Quiet {
		out = io.MultiWriter(os.Stderr, rotating)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           resolveLevel(cfg.Debug, os.Getenv(LevelEnvVar)),
		Prefix:          constants.AppName,
	})
	logPath = path
	return nil
}

// resolveLevel prefers a parseable override and otherwise maps the debug
// flag to debug or warn.
func resolveLevel(debug bool, override string) log.Level {
	if override = strings.TrimSpace(override); override != "" {
		if lvl, err := log.ParseLevel(strings.ToLower(override)); err == nil {
			return lvl
		}
	}
	if debug {
		return log.DebugLevel
	}
	return log.WarnLevel
}

// Component tags records with the subsystem that emitted them. A Component
// can be declared at package scope because it resolves Logger per call.
type Component struct {
	name string
}

func Named(name string) Component {
	return Component{name: name}
}

func (c Component) target() *log.Logger {
	if Logger == nil {
		return nil
	}
	if c.name == "" {
		return Logger
	}
	return Logger.With("component", c.name)
}

func (c Component) Debug(msg string, keyvals ...interface{}) {
	if l := c.target(); l != nil {
		l.Debug(msg, keyvals...)
	}
}

func (c Component) Info(msg string, keyvals ...interface{}) {
	if l := c.target(); l != nil {
		l.Info(msg, keyvals...)
	}
}

func (c Component) Warn(msg string, keyvals ...interface{}) {
	if l := c.target(); l != nil {
		l.Warn(msg, keyvals...)
	}
}

func (c Component) Error(msg string, keyvals ...interface{}) {
	if l := c.target(); l != nil {
		l.Error(msg, keyvals...)
	}
}

var root Component

func Debug(msg string, keyvals ...interface{}) { root.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { root.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { root.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { root.Error(msg, keyvals...) }

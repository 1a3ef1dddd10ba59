package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mevwatcher/config"
)

const MaxLogSize = 50 * 1024 * 1024 // 50 MB

const (
	globalChannel = "global"
	detectChannel = "detect"
	scanChannel   = "scan"
)

// Loggers are usable from import time on. Until InitLogs opens their files, DetectLogger and
// ScanLogger share GlobalLogger. A channel whose file cannot be opened logs to stderr only.
var (
	GlobalLogger, DetectLogger, ScanLogger *slog.Logger
)

var (
	mu             sync.Mutex
	consoleEnabled = true
	logDir         = config.LogPath
	files          = make(map[string]*rotatingWriter) // channel -> open log file
)

// rotatingWriter appends to prefix.log and moves on to prefix.1.log, prefix.2.log, ...
// each time the current file would grow past maxSize.
type rotatingWriter struct {
	mu      sync.Mutex
	path    func(seq int) string
	file    *os.File
	seq     int
	written int64
	maxSize int64
}

func newRotatingWriter(dir, prefix string, maxSize int64) (*rotatingWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w := &rotatingWriter{
		maxSize: maxSize,
		path: func(seq int) string {
			if seq == 0 {
				return filepath.Join(dir, prefix+".log")
			}
			return filepath.Join(dir, fmt.Sprintf("%s.%d.log", prefix, seq))
		},
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *rotatingWriter) open() error {
	f, err := os.OpenFile(w.path(w.seq), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o666)
	if err != nil {
		return err
	}
	w.file = f
	w.written = 0
	return nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}
	if w.written+int64(len(p)) > w.maxSize {
		_ = w.file.Close()
		w.seq++
		if err := w.open(); err != nil {
			w.file = nil
			return 0, err
		}
	}
	n, err := w.file.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func init() {
	openGlobal()
}

func openGlobal() {
	mu.Lock()
	defer mu.Unlock()
	openChannel(globalChannel, fmt.Sprintf("mevwatcher_%s_global", stamp()))
	rebuild()
}

// InitLogs opens the detect and scan log files of command cmdName.
func InitLogs(cmdName string) {
	mu.Lock()
	defer mu.Unlock()
	ts := stamp()
	for _, ch := range []string{detectChannel, scanChannel} {
		openChannel(ch, fmt.Sprintf("mevwatcher_%s_%s_%s", ts, cmdName, ch))
	}
	rebuild()
}

// SetConsoleEnabled toggles mirroring of every logger to stderr.
func SetConsoleEnabled(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	consoleEnabled = enabled
	rebuild()
}

// CloseAll closes every log file. Later records go to stderr.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for ch, w := range files {
		_ = w.Close()
		delete(files, ch)
	}
	rebuild()
}

// openChannel replaces the file of ch. On failure ch is left without a file.
func openChannel(ch, prefix string) {
	if old, ok := files[ch]; ok {
		_ = old.Close()
		delete(files, ch)
	}
	w, err := newRotatingWriter(logDir, prefix, MaxLogSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot open %s log in %s, using stderr: %v\n", ch, logDir, err)
		return
	}
	files[ch] = w
}

func rebuild() {
	GlobalLogger = slog.New(newHandler(files[globalChannel]))
	DetectLogger = channelLogger(detectChannel)
	ScanLogger = channelLogger(scanChannel)
}

func channelLogger(ch string) *slog.Logger {
	if w, ok := files[ch]; ok {
		return slog.New(newHandler(w))
	}
	return GlobalLogger
}

// newHandler writes to file, mirrored to stderr when console output is on.
// Without a file it writes to stderr regardless. Stdout is reserved for command output.
func newHandler(file *rotatingWriter) slog.Handler {
	var w io.Writer
	switch {
	case file == nil:
		w = os.Stderr
	case consoleEnabled:
		w = io.MultiWriter(os.Stderr, file)
	default:
		w = file
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{AddSource: true})
}

func stamp() string {
	return time.Now().Format("20060102150405")
}

// Package transcript records evaluated inputs as JSON lines. Appends take an
// exclusive file lock so several processes can share one transcript.
package transcript

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/oarkflow/json"
	"github.com/oarkflow/xid"
)

type Entry struct {
	ID       string        `json:"id"`
	Session  string        `json:"session,omitempty"`
	Time     time.Time     `json:"time"`
	Source   string        `json:"source"`
	Type     string        `json:"type,omitempty"`
	Result   string        `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

type Writer struct {
	path         string
	file         *os.File
	fileLock     *flock.Flock
	mu           sync.Mutex
	syncOnAppend bool
}

type Option func(*Writer)

// WithSync fsyncs the file after every append.
func WithSync() Option {
	return func(w *Writer) {
		w.syncOnAppend = true
	}
}

func Open(path string, opts ...Option) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		path:     path,
		file:     f,
		fileLock: flock.New(path + ".lock"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Writer) Path() string {
	return w.path
}

// Append writes entries in order, assigning an ID and timestamp to those
// that have none.
func (w *Writer) Append(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	var data []byte
	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = xid.New().String()
		}
		if entry.Time.IsZero() {
			entry.Time = time.Now().UTC()
		}
		line, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode transcript entry: %w", err)
		}
		data = append(data, line...)
		data = append(data, '\n')
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.fileLock.Lock(); err != nil {
		return err
	}
	defer func() {
		_ = w.fileLock.Unlock()
	}()

	if _, err := w.file.Write(data); err != nil {
		return err
	}
	if w.syncOnAppend {
		return w.file.Sync()
	}
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// Read loads every entry of the transcript at path.
func Read(path string) ([]Entry, error) {
	fileLock := flock.New(path + ".lock")
	if err := fileLock.RLock(); err != nil {
		return nil, err
	}
	defer func() {
		_ = fileLock.Unlock()
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("transcript line %d: %w", n, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

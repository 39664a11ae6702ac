package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	w, err := Open(path, WithSync())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	err = w.Append(
		Entry{Session: "s1", Source: "let x = 1;", Type: "NULL", Result: "null"},
		Entry{Session: "s1", Source: "x / 0", Type: "ERROR", Error: "division by zero", Duration: time.Millisecond},
	)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Append(); err != nil {
		t.Fatalf("empty Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Source != "let x = 1;" || entries[1].Error != "division by zero" {
		t.Errorf("entries = %+v", entries)
	}
	if entries[1].Duration != time.Millisecond {
		t.Errorf("duration = %s", entries[1].Duration)
	}
	for i, e := range entries {
		if e.ID == "" || e.Time.IsZero() {
			t.Errorf("entry %d missing id or time: %+v", i, e)
		}
	}
	if entries[0].ID == entries[1].ID {
		t.Errorf("entries share id %s", entries[0].ID)
	}
}

func TestReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.jsonl")
	for i := 0; i < 3; i++ {
		w, err := Open(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Append(Entry{Source: fmt.Sprintf("%d", i)}); err != nil {
			t.Fatal(err)
		}
		w.Close()
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[2].Source != "2" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.jsonl")
	w, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := w.Append(Entry{Source: strings.Repeat("x", i)}); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 25 {
		t.Errorf("got %d entries, want 25", len(entries))
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Read(filepath.Join(dir, "missing.jsonl")); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v", err)
	}

	path := filepath.Join(dir, "corrupt.jsonl")
	if err := os.WriteFile(path, []byte("{\"source\":\"1\"}\nnot json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Read(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("corrupt file err = %v", err)
	}
}

package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// HistoryFile is the default base name of the history file.
const HistoryFile = "history.utf8"

// historyPrefix marks the mode of each line in the history file.
var historyPrefix = map[inputMode]string{
	modeEval: "E:",
	modeCtrl: "C:",
}

// HistoryEntry is one submitted input line and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History is the list of submitted inputs, oldest first, persisted to a
// file. Submitting a line again moves it to the end.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History instance with the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those read from the history file. A
// missing file is an empty history. Lines without a mode prefix are eval
// inputs.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := HistoryEntry{Line: line, Mode: modeEval}

		for mode, prefix := range historyPrefix {
			if s, ok := strings.CutPrefix(line, prefix); ok {
				entry = HistoryEntry{Line: s, Mode: mode}

				break
			}
		}

		h.entries = append(h.entries, entry)
	}

	return scanner.Err()
}

// Append records line as entered in mode. An earlier identical entry is
// removed, which rewrites the file; otherwise the line is appended to it.
func (h *History) Append(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	if i := slices.Index(h.entries, entry); i >= 0 {
		h.entries = append(slices.Delete(h.entries, i, i+1), entry)

		return h.write(os.O_TRUNC, h.entries...)
	}

	h.entries = append(h.entries, entry)

	return h.write(os.O_APPEND, entry)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, false
	}

	return h.entries[i], true
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// write stores entries in the history file opened with flag. It must be
// called with h.mu held.
func (h *History) write(flag int, entries ...HistoryEntry) error {
	file, err := os.OpenFile(h.path, flag|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)

	for _, e := range entries {
		_, _ = w.WriteString(historyPrefix[e.Mode] + e.Line + "\n")
	}

	return errors.Join(w.Flush(), file.Close())
}

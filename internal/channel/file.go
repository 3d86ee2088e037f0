package channel

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// FileChannel appends one wire line per command to a text file.  The
// file is reopened in append mode for every record so an external reader
// can tail it, rotate it or truncate it without confusing the writer.
type FileChannel struct {
	path string
	mu   sync.Mutex
}

// OpenFile creates (or truncates) the command file at path and returns a
// channel appending to it.  Truncation happens here and nowhere else.
func OpenFile(path string) (*FileChannel, error) {
	fc := &FileChannel{path: path}
	if err := fc.Reset(context.Background()); err != nil {
		return nil, err
	}
	return fc, nil
}

// Path returns the file the channel writes to.
func (fc *FileChannel) Path() string { return fc.path }

// Reset empties the command file, creating it and its directory if needed.
func (fc *FileChannel) Reset(context.Context) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if dir := filepath.Dir(fc.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("command file: mkdir: %w", err)
		}
	}
	f, err := os.OpenFile(fc.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("command file: truncate: %w", err)
	}
	return f.Close()
}

// Publish appends cmd as a single line and syncs it to disk.
func (fc *FileChannel) Publish(_ context.Context, cmd model.Command) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return appendLine(fc.path, cmd.Line())
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("command file: open: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("command file: write: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("command file: sync: %w", err)
	}
	return f.Close()
}

// AppendLine appends one raw, already validated line to the command file
// at path.  It is used by relays that receive lines from elsewhere.
func AppendLine(path, line string) error { return appendLine(path, line) }

// ReadFile parses every line of a command file.  Blank lines are skipped;
// any malformed line aborts with an error naming its line number.
func ReadFile(path string) ([]model.Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cmds []model.Command
	sc := bufio.NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		cmd, err := model.ParseCommand(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

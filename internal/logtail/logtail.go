// Package logtail reads the tail of timekeep's own log file for the TUI log
// pane. Lines are slog text-handler records; Tail keeps the last N at or above
// a minimum level using a ring buffer, so memory is O(N) regardless of file size.
package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Tail returns at most maxLines from the end of the file at path, skipping
// records below min. A missing file yields no lines.
func Tail(path string, maxLines int, min slog.Level) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if LineLevel(line) < min {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// LineLevel extracts the level=... attribute from a slog text record. Lines
// without one count as info.
func LineLevel(line string) slog.Level {
	const key = "level="
	pos := strings.Index(line, key)
	if pos < 0 {
		return slog.LevelInfo
	}
	value := line[pos+len(key):]
	if end := strings.IndexByte(value, ' '); end >= 0 {
		value = value[:end]
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

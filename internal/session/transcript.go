package session

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteTranscript writes the thread as plain text: each turn role-prefixed,
// turns separated by a blank line.
func WriteTranscript(w io.Writer, turns []Turn) error {
	for i, t := range turns {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		line := fmt.Sprintf("%s: %s\n", strings.ToUpper(string(t.Role)), t.Content)
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// TranscriptFilename derives the save-as filename from the given date.
func TranscriptFilename(now time.Time) string {
	return fmt.Sprintf("petition-chat-%s.txt", now.Format("2006-01-02"))
}

// SaveTranscript writes the store's thread to a date-named file in dir and
// returns the path written.
func SaveTranscript(store *Store, dir string) (string, error) {
	path := filepath.Join(dir, TranscriptFilename(time.Now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	defer f.Close()

	if err := WriteTranscript(f, store.Turns()); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	return path, nil
}

package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Journal is an append-only, line oriented log of what the installer did to
// the SD card. It is kept next to the downloads so it survives reinstalls.
type Journal struct {
	Path string
	// Now is used to timestamp lines. If nil, lines are not timestamped.
	Now func() time.Time

	mu sync.Mutex
}

// Write appends line. Failures are returned but callers usually ignore them:
// a missing journal never blocks an install.
func (j *Journal) Write(line string) error {
	if j == nil || j.Path == "" {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := CreateTree(filepath.Dir(j.Path)); err != nil {
		return err
	}
	f, err := os.OpenFile(j.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	if j.Now != nil {
		line = j.Now().Format(time.RFC3339) + " " + line
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Writef is Write with fmt.Sprintf formatting.
func (j *Journal) Writef(format string, args ...any) error {
	return j.Write(fmt.Sprintf(format, args...))
}

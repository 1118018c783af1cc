// Package logging routes the standard logger to stdout and a daily log file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	filePrefix       = "kaizen-"
	fileSuffix       = ".log"
	dayLayout        = "2006-01-02"
	MaxRetentionDays = 7
)

// DailyFile is an io.Writer that switches to a new file when the local date
// changes and prunes files older than the retention window.
type DailyFile struct {
	dir       string
	retention int
	now       func() time.Time

	mu   sync.Mutex
	day  string
	file *os.File
}

func OpenDailyFile(dir string, retentionDays int) (*DailyFile, error) {
	if retentionDays <= 0 || retentionDays > MaxRetentionDays {
		retentionDays = MaxRetentionDays
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	d := &DailyFile{dir: dir, retention: retentionDays, now: time.Now}
	if err := d.rotate(d.now().Format(dayLayout)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if day := d.now().Format(dayLayout); day != d.day {
		if err := d.rotate(day); err != nil {
			return 0, err
		}
	}
	return d.file.Write(p)
}

func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// rotate must be called with mu held, or before d is shared.
func (d *DailyFile) rotate(day string) error {
	next, err := os.OpenFile(fileName(d.dir, day), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if d.file != nil {
		_ = d.file.Close()
	}
	d.file = next
	d.day = day
	prune(d.dir, d.retention, d.now())
	return nil
}

func fileName(dir, day string) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s%s", filePrefix, day, fileSuffix))
}

func prune(dir string, retentionDays int, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -(retentionDays - 1)).Format(dayLayout)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if _, err := time.Parse(dayLayout, day); err != nil {
			continue
		}
		if day < cutoff {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}

// Setup sends log output to stdout and a DailyFile in dir. The returned
// func restores stdout-only logging and closes the file.
func Setup(dir string, retentionDays int) (func(), error) {
	file, err := OpenDailyFile(dir, retentionDays)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	return func() {
		log.SetOutput(os.Stdout)
		_ = file.Close()
	}, nil
}

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RotatingWriter appends to a log file and moves it to old/<base>.YYYYMMDD-HHMMSS
// once it grows past maxSize. A background check reopens the path if the
// file was moved or deleted underneath it.
type RotatingWriter struct {
	mu      sync.Mutex
	f       *os.File
	path    string
	maxSize int64
	size    int64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewRotatingWriter opens path for appending, rotating first if it is already too large
func NewRotatingWriter(path string, maxSize int64, verifyInterval time.Duration) (*RotatingWriter, error) {
	w := &RotatingWriter{
		path:    path,
		maxSize: maxSize,
		stopCh:  make(chan struct{}),
	}

	if err := w.openLocked(); err != nil {
		return nil, err
	}
	if w.size >= w.maxSize {
		if err := w.rotateLocked(); err != nil {
			w.f.Close()
			return nil, err
		}
	}

	if verifyInterval > 0 {
		w.wg.Add(1)
		go w.verifyLoop(verifyInterval)
	}
	return w, nil
}

// Write implements io.Writer
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) >= w.maxSize {
		if err := w.rotateLocked(); err != nil {
			return 0, err
		}
	}

	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// Close stops the background check and closes the file
func (w *RotatingWriter) Close() error {
	close(w.stopCh)
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *RotatingWriter) verifyLoop(interval time.Duration) {
	defer w.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.mu.Lock()
			if !w.pathMatchesLocked() {
				_ = w.reopenLocked()
			}
			w.mu.Unlock()
		case <-w.stopCh:
			return
		}
	}
}

func (w *RotatingWriter) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.f = f
	w.size = fi.Size()
	return nil
}

func (w *RotatingWriter) reopenLocked() error {
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	return w.openLocked()
}

func (w *RotatingWriter) rotateLocked() error {
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}

	oldDir := filepath.Join(filepath.Dir(w.path), "old")
	if err := os.MkdirAll(oldDir, 0755); err != nil {
		return fmt.Errorf("creating old/ directory: %w", err)
	}
	archive := filepath.Join(oldDir, fmt.Sprintf("%s.%s", filepath.Base(w.path), time.Now().Format("20060102-150405")))
	_ = os.Rename(w.path, archive)

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating new log file: %w", err)
	}
	w.f = f
	w.size = 0
	return nil
}

// pathMatchesLocked reports whether the open descriptor is still the file at path
func (w *RotatingWriter) pathMatchesLocked() bool {
	if w.f == nil {
		return false
	}
	onDisk, err := os.Lstat(w.path)
	if err != nil {
		return false
	}
	open, err := w.f.Stat()
	if err != nil {
		return false
	}
	return os.SameFile(open, onDisk)
}

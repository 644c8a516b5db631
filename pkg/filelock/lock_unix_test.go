//go:build unix

package filelock

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExclusiveWaitsForRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclusive.lock")

	first, err := Acquire(path, true)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := Acquire(path, true)
		if err == nil {
			second.Release()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second exclusive lock acquired while first was held")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, first.Release())

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second exclusive lock never acquired")
	}
}

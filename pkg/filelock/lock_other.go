//go:build !unix

package filelock

import "os"

// Advisory locking is only implemented for unix; elsewhere locks always succeed.
func lockFile(f *os.File, exclusive bool) error {
	return nil
}

func unlockFile(f *os.File) error {
	return nil
}

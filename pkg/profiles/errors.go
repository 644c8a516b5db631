package profiles

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownUser is returned when no record exists for an id
	ErrUnknownUser = errors.New("user not found")

	// ErrInvalidCredentials is returned when the password does not match the stored one
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateUser is returned when registering an id that is already taken
	ErrDuplicateUser = errors.New("user already exists")

	// ErrNoCollection is returned by a Source when its backing collection does not exist yet
	ErrNoCollection = errors.New("profile collection not found")
)

// StoreReadError reports that the collection could not be loaded.
// The store stays usable with an empty collection.
type StoreReadError struct {
	Location string
	Err      error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("reading profiles from %s: %v", e.Location, e.Err)
}

func (e *StoreReadError) Unwrap() error {
	return e.Err
}

// StoreWriteError reports that the collection could not be rewritten.
// The in-memory state is kept and is now ahead of the backing store.
type StoreWriteError struct {
	Location string
	Err      error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("writing profiles to %s: %v", e.Location, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

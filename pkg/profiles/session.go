package profiles

import (
	"fmt"
	"math"
)

// Session is the live, mutable view of one player's record. Every
// mutation is written through the store immediately.
type Session struct {
	store    *Store
	record   *Record
	snapshot *Record // state at session start, restored by Reset
}

// Authenticate opens a session for an existing account
func Authenticate(store *Store, id, password string) (*Session, error) {
	rec, err := store.Get(id)
	if err != nil {
		store.audit.LogAuth("authenticate", id, "unknown_user")
		return nil, err
	}
	if rec.Password != password {
		store.audit.LogAuth("authenticate", id, "invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	store.audit.LogAuth("authenticate", id, "success")
	return newSession(store, rec), nil
}

// Register creates a new account and opens a session for it. If the
// account could not be persisted the session is still returned along with
// the *StoreWriteError.
func Register(store *Store, id, password, avatar string, birthday Birthday) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("registering user: empty id")
	}
	if store.Exists(id) {
		store.audit.LogAuth("register", id, "duplicate")
		return nil, ErrDuplicateUser
	}

	sess := newSession(store, newRecord(id, password, avatar, birthday))
	if err := sess.persist("register"); err != nil {
		store.audit.LogAuth("register", id, "write_failed")
		return sess, err
	}
	store.audit.LogAuth("register", id, "success")
	return sess, nil
}

func newSession(store *Store, rec *Record) *Session {
	return &Session{
		store:    store,
		record:   rec,
		snapshot: rec.Clone(),
	}
}

// persist writes the record through the store and audits the outcome
func (s *Session) persist(op string, details ...interface{}) error {
	err := s.store.Save(s.record)
	s.store.audit.LogChange(op, s.record.ID, append(details, "status", writeStatus(err))...)
	return err
}

func writeStatus(err error) string {
	if err != nil {
		return "write_failed"
	}
	return "ok"
}

// UpdateScore adds delta to the score, never going below zero
func (s *Session) UpdateScore(delta int) error {
	return s.setScore(s.record.Score + delta)
}

// ReplaceScore sets the score, never going below zero
func (s *Session) ReplaceScore(score int) error {
	return s.setScore(score)
}

func (s *Session) setScore(score int) error {
	s.record.Score = max(score, 0)
	return s.persist("score", "score", s.record.Score)
}

// ChangeAvatar sets the avatar path
func (s *Session) ChangeAvatar(path string) error {
	s.record.Avatar = path
	return s.persist("avatar", "avatar", path)
}

// UpdateLevelScore records score for level, keeping the highest score seen.
// Negative levels are ignored. The first score for a level is stored as given.
func (s *Session) UpdateLevelScore(level, score int) error {
	if level < 0 {
		return nil
	}
	if stored, ok := s.record.LevelScores[level]; ok {
		score = max(score, stored)
	}
	s.record.LevelScores[level] = score
	return s.persist("level_score", "level", level, "score", score)
}

// UpdateLevelPath records path for level if the level has no path yet or
// path has strictly fewer samples than the stored one. Empty paths, paths
// with NaN or infinite samples and levels below 1 are ignored.
func (s *Session) UpdateLevelPath(level int, path []float64) error {
	if len(path) == 0 || level < FirstLevel || !finite(path) {
		return nil
	}
	if stored, ok := s.record.LevelPaths[level]; ok && len(path) >= len(stored) {
		return nil
	}
	s.record.LevelPaths[level] = append([]float64(nil), path...)
	return s.persist("level_path", "level", level, "samples", len(path))
}

func finite(path []float64) bool {
	for _, v := range path {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SetType sets the player type. Values other than 0 and 1 are ignored.
func (s *Session) SetType(t int) error {
	if t != TypeAlternate && t != TypeDefault {
		return nil
	}
	s.record.Type = t
	return s.persist("type", "type", t)
}

// Reset restores the state captured when the session started and
// persists it, overwriting any later changes.
func (s *Session) Reset() error {
	s.record = s.snapshot.Clone()
	return s.persist("reset")
}

// ID returns the account id
func (s *Session) ID() string {
	return s.record.ID
}

// Password returns the stored password
func (s *Session) Password() string {
	return s.record.Password
}

// Avatar returns the avatar path
func (s *Session) Avatar() string {
	return s.record.Avatar
}

// Birthday returns the birthday
func (s *Session) Birthday() Birthday {
	return s.record.Birthday
}

// BirthMonth returns the birthday month
func (s *Session) BirthMonth() int { return s.record.Birthday.Month }

// BirthDay returns the birthday day of month
func (s *Session) BirthDay() int { return s.record.Birthday.Day }

// BirthYear returns the birthday year
func (s *Session) BirthYear() int { return s.record.Birthday.Year }

// Score returns the current score
func (s *Session) Score() int {
	return s.record.Score
}

// LevelScore returns the high score for level, 0 if the level was never played
func (s *Session) LevelScore(level int) int {
	return s.record.LevelScores[level]
}

// LevelScores returns a copy of every level's high score
func (s *Session) LevelScores() map[int]int {
	out := make(map[int]int, len(s.record.LevelScores))
	for level, score := range s.record.LevelScores {
		out[level] = score
	}
	return out
}

// LevelPath returns a copy of the path stored for level, [0, 0] if none
func (s *Session) LevelPath(level int) []float64 {
	path, ok := s.record.LevelPaths[level]
	if !ok {
		return defaultPath()
	}
	return append([]float64(nil), path...)
}

// LevelPaths returns a copy of every stored path
func (s *Session) LevelPaths() map[int][]float64 {
	return s.record.Clone().LevelPaths
}

// Type returns the player type; unknown stored values read as 0
func (s *Session) Type() int {
	if s.record.Type == TypeDefault {
		return TypeDefault
	}
	return TypeAlternate
}

// Record returns a copy of the live record
func (s *Session) Record() *Record {
	return s.record.Clone()
}

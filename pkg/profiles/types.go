package profiles

import (
	"fmt"
	"strconv"
	"strings"
)

// Player types
const (
	TypeAlternate = 0
	TypeDefault   = 1
)

// FirstLevel is the level every new account starts with
const FirstLevel = 1

// Birthday holds a month/day/year triple. It is set once at registration.
type Birthday struct {
	Month int `json:"month"`
	Day   int `json:"day"`
	Year  int `json:"year"`
}

// ParseBirthday parses a "month/day/year" string
func ParseBirthday(s string) (Birthday, error) {
	return BirthdayFromStrings(strings.Split(s, "/"))
}

// BirthdayFromStrings builds a Birthday from its month, day and year components
func BirthdayFromStrings(parts []string) (Birthday, error) {
	if len(parts) != 3 {
		return Birthday{}, fmt.Errorf("birthday needs month, day and year, got %d parts", len(parts))
	}

	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Birthday{}, fmt.Errorf("parsing birthday component %q: %w", p, err)
		}
		vals[i] = v
	}
	return Birthday{Month: vals[0], Day: vals[1], Year: vals[2]}, nil
}

// Record is the durable state of one player
type Record struct {
	ID          string            `json:"id"`
	Password    string            `json:"password"`
	Avatar      string            `json:"avatar"`
	Birthday    Birthday          `json:"birthday"`
	Score       int               `json:"score"`
	Type        int               `json:"type"`
	LevelScores map[int]int       `json:"levels"`
	LevelPaths  map[int][]float64 `json:"paths"`
}

// newRecord returns the record a fresh registration starts with
func newRecord(id, password, avatar string, birthday Birthday) *Record {
	return &Record{
		ID:          id,
		Password:    password,
		Avatar:      avatar,
		Birthday:    birthday,
		Score:       0,
		Type:        TypeDefault,
		LevelScores: map[int]int{FirstLevel: 0},
		LevelPaths:  map[int][]float64{FirstLevel: defaultPath()},
	}
}

func defaultPath() []float64 {
	return []float64{0.0, 0.0}
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.LevelScores = make(map[int]int, len(r.LevelScores))
	for level, score := range r.LevelScores {
		out.LevelScores[level] = score
	}
	out.LevelPaths = make(map[int][]float64, len(r.LevelPaths))
	for level, path := range r.LevelPaths {
		out.LevelPaths[level] = append([]float64(nil), path...)
	}
	return &out
}

// Source represents a backing store for the whole profile collection
type Source interface {
	// Load reads every record. Returns ErrNoCollection (wrapped) when
	// the collection has never been written.
	Load() (map[string]*Record, error)

	// Save replaces the whole collection
	Save(records map[string]*Record) error

	// Location describes where the collection lives, for error messages
	Location() string
}

package profiles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mmcdole/profilekeeper/pkg/logging"
)

// Field names in the collection document
const (
	IDField       = "id"
	PasswordField = "password"
	AvatarField   = "avatar"
	BirthdayField = "birthday"
	ScoreField    = "score"
	TypeField     = "type"
	LevelsField   = "levels"
	PathsField    = "paths"
)

// EncodeCollection renders the collection as an indented JSON document.
// Output is byte-stable for equal collections.
func EncodeCollection(records map[string]*Record) ([]byte, error) {
	if records == nil {
		records = map[string]*Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding profiles: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeCollection parses a collection document. Individual fields that are
// missing or of the wrong type fall back to defaults instead of failing the
// whole load; entries that are not objects are skipped.
func DecodeCollection(data []byte) (map[string]*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("parsing profiles: document is not an object")
	}

	records := make(map[string]*Record, len(raw))
	for key, value := range raw {
		obj, ok := value.(map[string]interface{})
		if !ok {
			logging.App.Warn("Skipping malformed profile entry", "id", key, "type", fmt.Sprintf("%T", value))
			continue
		}
		records[key] = decodeRecord(key, obj)
	}
	return records, nil
}

func decodeRecord(key string, obj map[string]interface{}) *Record {
	rec := &Record{
		ID:          key,
		Type:        TypeDefault,
		LevelScores: make(map[int]int),
		LevelPaths:  make(map[int][]float64),
	}

	// The collection key is authoritative
	if id, ok := obj[IDField].(string); ok && id != key {
		logging.App.Warn("Profile id does not match its key", "key", key, "id", id)
	}
	rec.Password, _ = obj[PasswordField].(string)
	rec.Avatar, _ = obj[AvatarField].(string)
	rec.Score = intOrZero(obj[ScoreField])
	if t, ok := toInt(obj[TypeField]); ok {
		rec.Type = t
	}

	if bday, ok := obj[BirthdayField].(map[string]interface{}); ok {
		rec.Birthday = Birthday{
			Month: intOrZero(bday["month"]),
			Day:   intOrZero(bday["day"]),
			Year:  intOrZero(bday["year"]),
		}
	}

	if levels, ok := obj[LevelsField].(map[string]interface{}); ok {
		for k, v := range levels {
			level, err := strconv.Atoi(k)
			if err != nil {
				logging.App.Debug("Dropping malformed level key", "id", key, "level", k)
				continue
			}
			rec.LevelScores[level] = intOrZero(v)
		}
	}

	if paths, ok := obj[PathsField].(map[string]interface{}); ok {
		for k, v := range paths {
			level, err := strconv.Atoi(k)
			if err != nil {
				logging.App.Debug("Dropping malformed path key", "id", key, "level", k)
				continue
			}
			samples, ok := v.([]interface{})
			if !ok {
				logging.App.Debug("Dropping malformed path", "id", key, "level", level)
				continue
			}
			path := make([]float64, 0, len(samples))
			for _, s := range samples {
				path = append(path, floatOrZero(s))
			}
			rec.LevelPaths[level] = path
		}
	}

	return rec
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func intOrZero(v interface{}) int {
	i, _ := toInt(v)
	return i
}

func floatOrZero(v interface{}) float64 {
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case float64:
		return n
	}
	return 0.0
}

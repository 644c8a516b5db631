package profiles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCollection(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		data := []byte(`{
  "alice": {
    "id": "alice",
    "password": "pw",
    "avatar": "avatars/alice.png",
    "birthday": {"month": 4, "day": 12, "year": 1999},
    "score": 17,
    "type": 0,
    "levels": {"1": 5, "3": 40},
    "paths": {"1": [0.0, 0.0], "3": [1.5, 2, 3.25]}
  }
}`)
		records, err := DecodeCollection(data)
		require.NoError(t, err)
		require.Contains(t, records, "alice")

		rec := records["alice"]
		assert.Equal(t, "alice", rec.ID)
		assert.Equal(t, "pw", rec.Password)
		assert.Equal(t, "avatars/alice.png", rec.Avatar)
		assert.Equal(t, Birthday{Month: 4, Day: 12, Year: 1999}, rec.Birthday)
		assert.Equal(t, 17, rec.Score)
		assert.Equal(t, 0, rec.Type)
		assert.Equal(t, map[int]int{1: 5, 3: 40}, rec.LevelScores)
		assert.Equal(t, map[int][]float64{1: {0, 0}, 3: {1.5, 2, 3.25}}, rec.LevelPaths)
	})

	t.Run("missing fields use defaults", func(t *testing.T) {
		records, err := DecodeCollection([]byte(`{"bob": {"password": "x"}}`))
		require.NoError(t, err)

		rec := records["bob"]
		require.NotNil(t, rec)
		assert.Equal(t, "bob", rec.ID, "id falls back to the collection key")
		assert.Equal(t, "", rec.Avatar)
		assert.Equal(t, Birthday{}, rec.Birthday)
		assert.Equal(t, 0, rec.Score)
		assert.Equal(t, TypeDefault, rec.Type)
		assert.NotNil(t, rec.LevelScores)
		assert.NotNil(t, rec.LevelPaths)
		assert.Empty(t, rec.LevelScores)
		assert.Empty(t, rec.LevelPaths)
	})

	t.Run("malformed fields use defaults", func(t *testing.T) {
		data := []byte(`{"carol": {
			"avatar": 12,
			"score": "lots",
			"birthday": {"month": "june", "day": 3},
			"levels": {"x": 9, "2": "high", "4": 8},
			"paths": {"y": [1], "2": "none", "5": [1, "two", 3]}
		}}`)
		records, err := DecodeCollection(data)
		require.NoError(t, err)

		rec := records["carol"]
		assert.Equal(t, "", rec.Avatar)
		assert.Equal(t, 0, rec.Score)
		assert.Equal(t, Birthday{Month: 0, Day: 3, Year: 0}, rec.Birthday)
		assert.Equal(t, map[int]int{2: 0, 4: 8}, rec.LevelScores)
		assert.Equal(t, map[int][]float64{5: {1, 0, 3}}, rec.LevelPaths)
	})

	t.Run("non-object entries are skipped", func(t *testing.T) {
		records, err := DecodeCollection([]byte(`{"dave": 5, "erin": {"password": "p"}}`))
		require.NoError(t, err)
		assert.NotContains(t, records, "dave")
		assert.Contains(t, records, "erin")
	})

	t.Run("out of range type is kept", func(t *testing.T) {
		records, err := DecodeCollection([]byte(`{"finn": {"type": 7}}`))
		require.NoError(t, err)
		assert.Equal(t, 7, records["finn"].Type)
	})

	t.Run("key wins over inner id", func(t *testing.T) {
		records, err := DecodeCollection([]byte(`{"k": {"id": "other"}, "m": {"id": ""}}`))
		require.NoError(t, err)
		assert.Equal(t, "k", records["k"].ID)
		assert.Equal(t, "m", records["m"].ID)
	})

	t.Run("invalid documents", func(t *testing.T) {
		for _, doc := range []string{"", "not json", "null", "[1, 2]"} {
			_, err := DecodeCollection([]byte(doc))
			assert.Error(t, err, "document %q", doc)
		}
	})
}

func TestEncodeCollection(t *testing.T) {
	records := map[string]*Record{
		"zed":   newRecord("zed", "pw", "z.png", Birthday{Month: 1, Day: 1, Year: 2000}),
		"alice": newRecord("alice", "pw", "a.png", Birthday{Month: 2, Day: 2, Year: 2001}),
	}

	first, err := EncodeCollection(records)
	require.NoError(t, err)
	second, err := EncodeCollection(records)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second), "encoding must be stable")

	assert.Contains(t, string(first), "\n  \"alice\": {\n", "output is indented")
	assert.Less(t, strings.Index(string(first), "alice"), strings.Index(string(first), "zed"), "ids are sorted")

	decoded, err := DecodeCollection(first)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestEncodeNilCollection(t *testing.T) {
	data, err := EncodeCollection(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

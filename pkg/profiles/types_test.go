package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirthday(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Birthday
		wantErr bool
	}{
		{"valid", "4/12/1999", Birthday{Month: 4, Day: 12, Year: 1999}, false},
		{"spaces", " 1 / 2 / 2003 ", Birthday{Month: 1, Day: 2, Year: 2003}, false},
		{"too few parts", "4/12", Birthday{}, true},
		{"too many parts", "4/12/1999/1", Birthday{}, true},
		{"not a number", "april/12/1999", Birthday{}, true},
		{"empty", "", Birthday{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBirthday(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBirthdayFromStrings(t *testing.T) {
	got, err := BirthdayFromStrings([]string{"12", "31", "1985"})
	require.NoError(t, err)
	assert.Equal(t, Birthday{Month: 12, Day: 31, Year: 1985}, got)
}

func TestRecordClone(t *testing.T) {
	var nilRec *Record
	assert.Nil(t, nilRec.Clone())

	rec := &Record{ID: "x"}
	clone := rec.Clone()
	assert.NotNil(t, clone.LevelScores)
	assert.NotNil(t, clone.LevelPaths)

	orig := newRecord("y", "pw", "", Birthday{})
	c := orig.Clone()
	c.LevelPaths[1][0] = 3
	c.LevelScores[1] = 3
	assert.Equal(t, []float64{0, 0}, orig.LevelPaths[1])
	assert.Equal(t, 0, orig.LevelScores[1])
}

package redissource

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mmcdole/profilekeeper/pkg/profiles"
)

type SourceSuite struct {
	suite.Suite
	mini   *miniredis.Miniredis
	source *Source
}

func TestSourceSuite(t *testing.T) {
	suite.Run(t, new(SourceSuite))
}

func (s *SourceSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})
	s.source = NewWithClient(client, DefaultConfig())
}

func (s *SourceSuite) TearDownTest() {
	if s.source != nil {
		_ = s.source.Close()
	}
}

func (s *SourceSuite) TestLoadMissingKey() {
	_, err := s.source.Load()
	s.ErrorIs(err, profiles.ErrNoCollection)
}

func (s *SourceSuite) TestSaveAndLoad() {
	records := map[string]*profiles.Record{
		"alice": {
			ID:          "alice",
			Password:    "pw",
			Avatar:      "avatars/alice.png",
			Birthday:    profiles.Birthday{Month: 4, Day: 12, Year: 1999},
			Score:       42,
			Type:        0,
			LevelScores: map[int]int{1: 10, 2: 30},
			LevelPaths:  map[int][]float64{1: {0, 0}, 2: {1.5, 2.5, 3.5}},
		},
	}

	s.Require().NoError(s.source.Save(records))

	loaded, err := s.source.Load()
	s.Require().NoError(err)
	s.Equal(records, loaded)
}

func (s *SourceSuite) TestStoredDocumentIsIndentedJSON() {
	s.Require().NoError(s.source.Save(map[string]*profiles.Record{}))

	raw, err := s.mini.Get(DefaultConfig().Key)
	s.Require().NoError(err)
	s.Equal("{}\n", raw)
}

func (s *SourceSuite) TestMalformedDocument() {
	s.Require().NoError(s.mini.Set(DefaultConfig().Key, "not json"))

	_, err := s.source.Load()
	s.Error(err)
	s.NotErrorIs(err, profiles.ErrNoCollection)
}

func (s *SourceSuite) TestStoreRoundTrip() {
	store := profiles.NewStore(s.source)
	err := store.Load()
	s.ErrorIs(err, profiles.ErrNoCollection)

	sess, err := profiles.Register(store, "bob", "secret", "", profiles.Birthday{Month: 1, Day: 2, Year: 2003})
	s.Require().NoError(err)
	s.Require().NoError(sess.UpdateScore(15))

	reopened, err := profiles.Open(s.source)
	s.Require().NoError(err)

	again, err := profiles.Authenticate(reopened, "bob", "secret")
	s.Require().NoError(err)
	s.Equal(15, again.Score())
}

func (s *SourceSuite) TestNewRejectsBadURL() {
	_, err := New(Config{URL: "://nope"})
	s.Error(err)
}

func (s *SourceSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	src, err := New(cfg)
	s.Require().NoError(err)
	defer src.Close()
	s.Contains(src.Location(), cfg.Key)
}

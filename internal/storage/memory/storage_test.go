package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lcastelli/motdepasse-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Word bank tests

func (s *StorageSuite) TestSaveAndGetWords() {
	words := []model.Word{{Text: "chat", Category: "animals", Emoji: "🐱"}}

	s.Require().NoError(s.storage.SaveWords(s.ctx, words))

	got, err := s.storage.GetWords(s.ctx)
	s.Require().NoError(err)
	s.Equal(words, got)
}

func (s *StorageSuite) TestGetWordsEmpty() {
	_, err := s.storage.GetWords(s.ctx)
	s.ErrorIs(err, model.ErrWordBankExhausted)
}

func (s *StorageSuite) TestGetWordsReturnsCopy() {
	s.Require().NoError(s.storage.SaveWords(s.ctx, []model.Word{{Text: "chat", Category: "animals"}}))

	got, err := s.storage.GetWords(s.ctx)
	s.Require().NoError(err)
	got[0].Text = "mutated"

	again, err := s.storage.GetWords(s.ctx)
	s.Require().NoError(err)
	s.Equal("chat", again[0].Text)
}

// Game archive tests

func (s *StorageSuite) TestSaveAndGetGameRecords() {
	record := &model.GameRecord{
		RoomCode: "ABCD",
		Rankings: []model.TeamRanking{{Rank: 1, Name: "Red", Score: 3}},
	}

	s.Require().NoError(s.storage.SaveGameRecord(s.ctx, record))

	got, err := s.storage.GetGameRecords(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(record.Rankings, got[0].Rankings)
}

func (s *StorageSuite) TestGameRecordsAppend() {
	s.Require().NoError(s.storage.SaveGameRecord(s.ctx, &model.GameRecord{RoomCode: "ABCD"}))
	s.Require().NoError(s.storage.SaveGameRecord(s.ctx, &model.GameRecord{RoomCode: "ABCD", EndedEarly: true}))

	got, err := s.storage.GetGameRecords(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(got[1].EndedEarly)
}

func (s *StorageSuite) TestGetGameRecordsUnknownRoom() {
	_, err := s.storage.GetGameRecords(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrRecordNotFound)
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crowdsnake/internal/model"
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
	s.storage = New(3)
	s.ctx = context.Background()
}

func (s *StorageSuite) appendTicks(from, to int64) {
	for i := from; i <= to; i++ {
		s.Require().NoError(s.storage.AppendTick(s.ctx, model.TickRecord{Tick: i, Length: 3}))
	}
}

func ticksOf(recs []model.TickRecord) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.Tick
	}
	return out
}

func (s *StorageSuite) TestEmpty() {
	recs, err := s.storage.RecentTicks(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(recs)
}

func (s *StorageSuite) TestNewestFirst() {
	s.appendTicks(1, 2)

	recs, err := s.storage.RecentTicks(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]int64{2, 1}, ticksOf(recs))
}

func (s *StorageSuite) TestOldestDroppedPastCapacity() {
	s.appendTicks(1, 5)

	recs, err := s.storage.RecentTicks(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal([]int64{5, 4, 3}, ticksOf(recs))
}

func (s *StorageSuite) TestLimit() {
	s.appendTicks(1, 5)

	recs, err := s.storage.RecentTicks(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal([]int64{5, 4}, ticksOf(recs))
}

func (s *StorageSuite) TestZeroLimitReturnsAll() {
	s.appendTicks(1, 2)

	recs, err := s.storage.RecentTicks(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(recs, 2)
}

func (s *StorageSuite) TestDefaultCapacity() {
	st := New(0)
	s.Len(st.ticks, DefaultCapacity)
}

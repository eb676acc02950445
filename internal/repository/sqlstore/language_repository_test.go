package sqlstore_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoflash/internal/repository"
	"github.com/vytor/lingoflash/internal/repository/sqlstore"
	"github.com/vytor/lingoflash/internal/testutil"
)

type LanguageRepositorySuite struct {
	suite.Suite
	db   *sqlx.DB
	repo repository.LanguageRepository
}

func (s *LanguageRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlstore.NewLanguageRepository(s.db)
}

func (s *LanguageRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LanguageRepositorySuite) TestSeededLanguages() {
	ctx := context.Background()

	langs, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(langs, 3)

	zh, err := s.repo.FindByCode(ctx, "zh-Hans")
	s.Require().NoError(err)
	s.Require().NotNil(zh)
	s.Equal("Çince (Basitleştirilmiş)", zh.Name)

	byID, err := s.repo.FindByID(ctx, zh.ID)
	s.Require().NoError(err)
	s.Equal(zh, byID)

	missing, err := s.repo.FindByCode(ctx, "xx")
	s.Require().NoError(err)
	s.Nil(missing)
}

func TestLanguageRepositorySuite(t *testing.T) {
	suite.Run(t, new(LanguageRepositorySuite))
}

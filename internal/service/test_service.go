package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/repository"
)

// TestService covers the test operations that do not go through the editor.
type TestService interface {
	GetTestWithQuestions(ctx context.Context, id string) (*model.Test, error)
	DeleteTest(ctx context.Context, id string) error
}

type testService struct {
	testRepo repository.TestRepository
}

func NewTestService(testRepo repository.TestRepository) TestService {
	return &testService{testRepo: testRepo}
}

func (s *testService) GetTestWithQuestions(ctx context.Context, id string) (*model.Test, error) {
	test, err := s.testRepo.FindByIDWithQuestions(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("test_id", id).Msg("Failed to load test")
		return nil, core.NewNoticeError(core.Notice(err, "Failed to load test"), err)
	}
	return test, nil
}

func (s *testService) DeleteTest(ctx context.Context, id string) error {
	if err := s.testRepo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("test_id", id).Msg("Failed to delete test")
		return core.NewNoticeError(core.Notice(err, "Failed to delete test"), err)
	}
	log.Info().Str("test_id", id).Msg("Test deleted")
	return nil
}

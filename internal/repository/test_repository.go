package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/lshigami/acebrainiac/internal/dto"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/transport"
)

const testsPath = "/admin/tests"

type TestRepository interface {
	QuestionRepository
	Create(ctx context.Context) (*model.Test, error)
	FindByIDWithQuestions(ctx context.Context, id string) (*model.Test, error)
	UpdateSettings(ctx context.Context, id string, settings model.TestSettings) error
	Delete(ctx context.Context, id string) error
}

type testRepository struct {
	client *transport.Client
}

func NewTestRepository(client *transport.Client) TestRepository {
	return &testRepository{client: client}
}

func testPath(id string) string {
	return fmt.Sprintf("%s/%s", testsPath, url.PathEscape(id))
}

// Create registers an empty test and returns it with its server id.
func (r *testRepository) Create(ctx context.Context) (*model.Test, error) {
	body, err := r.client.PostJSON(ctx, testsPath, nil)
	if err != nil {
		return nil, err
	}
	var resp dto.TestResponseDTO
	if err := transport.DecodeData(body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, errors.New("create test: response carried no id")
	}
	return toModelTest(resp)
}

func (r *testRepository) FindByIDWithQuestions(ctx context.Context, id string) (*model.Test, error) {
	body, err := r.client.Get(ctx, testPath(id), nil)
	if err != nil {
		return nil, err
	}
	var resp dto.TestResponseDTO
	if err := transport.DecodeData(body, &resp); err != nil {
		return nil, err
	}
	return toModelTest(resp)
}

func (r *testRepository) UpdateSettings(ctx context.Context, id string, settings model.TestSettings) error {
	var req dto.TestSettingsDTO
	if err := copier.Copy(&req, &settings); err != nil {
		return errors.Wrap(err, "map test settings")
	}
	_, err := r.client.PutJSON(ctx, testPath(id), req)
	return err
}

func (r *testRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, testPath(id))
	return err
}

func toModelTest(resp dto.TestResponseDTO) (*model.Test, error) {
	test := &model.Test{ID: resp.ID, CreatedAt: resp.CreatedAt, UpdatedAt: resp.UpdatedAt}
	if err := copier.Copy(&test.Settings, &resp); err != nil {
		return nil, errors.Wrap(err, "map test settings")
	}
	for _, q := range resp.Questions {
		mq, err := toModelQuestion(q)
		if err != nil {
			return nil, err
		}
		test.Questions = append(test.Questions, mq)
	}
	return test, nil
}

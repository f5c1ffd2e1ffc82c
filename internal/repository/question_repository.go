package repository

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/dto"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/transport"
)

// ErrPartialSave marks a bulk upsert the backend accepted only in part.
var ErrPartialSave = errors.New("questions saved partially")

type QuestionRepository interface {
	// UpsertQuestions sends every question of a test in one multipart request.
	// Files are keyed by question index. The returned questions are in request
	// order; the slice is empty when the backend does not echo them.
	UpsertQuestions(ctx context.Context, testID string, questions []dto.QuestionPayloadDTO, files []transport.FilePart) ([]model.Question, error)
	DeleteQuestion(ctx context.Context, testID, questionID string) error
}

func (r *testRepository) UpsertQuestions(ctx context.Context, testID string, questions []dto.QuestionPayloadDTO, files []transport.FilePart) ([]model.Question, error) {
	encoded, err := json.Marshal(questions)
	if err != nil {
		return nil, errors.Wrap(err, "encode questions")
	}
	form := &transport.Form{
		Fields: map[string]string{"questions": string(encoded)},
		Files:  files,
	}
	body, err := r.client.PostForm(ctx, testPath(testID)+"/questions", form)
	if err != nil {
		return nil, err
	}
	if err := partialFailure(body); err != nil {
		return nil, err
	}
	return decodeSavedQuestions(body)
}

func (r *testRepository) DeleteQuestion(ctx context.Context, testID, questionID string) error {
	p := fmt.Sprintf("%s/questions/%s", testPath(testID), url.PathEscape(questionID))
	_, err := r.client.Delete(ctx, p)
	return err
}

// partialFailure reports a 2xx body flagged {"success": false}. The backend
// message is kept verbatim.
func partialFailure(body []byte) error {
	var env struct {
		Success *bool    `json:"success"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if json.Unmarshal(body, &env) != nil || env.Success == nil || *env.Success {
		return nil
	}
	msg := env.Message
	if msg == "" && len(env.Errors) > 0 {
		msg = env.Errors[0]
	}
	if msg == "" {
		msg = ErrPartialSave.Error()
	}
	return core.NewNoticeError(msg, ErrPartialSave)
}

func decodeSavedQuestions(body []byte) ([]model.Question, error) {
	var raw json.RawMessage
	if err := transport.DecodeData(body, &raw); err != nil {
		return nil, nil
	}
	var list []dto.QuestionResponseDTO
	if json.Unmarshal(raw, &list) != nil {
		var wrapped dto.BulkQuestionsResponseDTO
		if json.Unmarshal(raw, &wrapped) != nil {
			return nil, nil
		}
		list = wrapped.Questions
	}
	out := make([]model.Question, 0, len(list))
	for _, q := range list {
		mq, err := toModelQuestion(q)
		if err != nil {
			return nil, err
		}
		out = append(out, mq)
	}
	return out, nil
}

func toModelQuestion(q dto.QuestionResponseDTO) (model.Question, error) {
	var mq model.Question
	if err := copier.Copy(&mq, &q); err != nil {
		return mq, errors.Wrap(err, "map question")
	}
	mq.IsExisting = true
	if q.ImageURL != "" {
		mq.Attachment = &model.Attachment{Name: path.Base(q.ImageURL), URL: q.ImageURL}
	}
	return mq, nil
}

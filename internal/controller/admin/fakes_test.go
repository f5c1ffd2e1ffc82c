package admin

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/lshigami/acebrainiac/internal/dto"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/transport"
)

const testID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type fakeRepo struct {
	mu sync.Mutex

	creates, updates, upserts, deletes, finds int

	createErr, updateErr, upsertErr, deleteErr, findErr error

	stored       *model.Test
	lastSettings model.TestSettings
	lastPayload  []dto.QuestionPayloadDTO
	lastFiles    map[string]string
	// echo builds the upsert response; nil echoes nothing.
	echo func(payload []dto.QuestionPayloadDTO) []model.Question
}

func (r *fakeRepo) Create(ctx context.Context) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &model.Test{ID: testID}, nil
}

func (r *fakeRepo) FindByIDWithQuestions(ctx context.Context, id string) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	t := *r.stored
	t.Questions = copyQuestions(r.stored.Questions)
	return &t, nil
}

func (r *fakeRepo) UpdateSettings(ctx context.Context, id string, settings model.TestSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	r.lastSettings = settings
	return r.updateErr
}

func (r *fakeRepo) UpsertQuestions(ctx context.Context, id string, payload []dto.QuestionPayloadDTO, files []transport.FilePart) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	r.lastPayload = payload
	r.lastFiles = map[string]string{}
	for _, f := range files {
		data, _ := io.ReadAll(f.Content)
		r.lastFiles[f.Field] = string(data)
	}
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	if r.echo == nil {
		return nil, nil
	}
	return r.echo(payload), nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *fakeRepo) DeleteQuestion(ctx context.Context, testID, questionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	return r.deleteErr
}

func (r *fakeRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates + r.updates + r.upserts + r.deletes + r.finds
}

// memStager keeps staged bytes in memory. When gate is set, staging blocks
// until it is closed.
type memStager struct {
	gate chan struct{}
	err  error

	mu     sync.Mutex
	staged []*memFile
}

func (s *memStager) Stage(ctx context.Context, name string, r io.Reader) (model.StagedFile, error) {
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f := &memFile{name: name, data: data}
	s.mu.Lock()
	s.staged = append(s.staged, f)
	s.mu.Unlock()
	return f, nil
}

func (s *memStager) last() *memFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged[len(s.staged)-1]
}

type memFile struct {
	name string
	data []byte

	mu       sync.Mutex
	released bool
}

func (f *memFile) Name() string { return f.name }

func (f *memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func (f *memFile) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = true
	return nil
}

func (f *memFile) isReleased() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

// fillValid makes question qi submittable: text, two options, the first correct.
func fillValid(e *TestEditor, qi int, text string) {
	_ = e.SetQuestionText(qi, text)
	_ = e.SetOption(qi, 0, "yes")
	_ = e.SetOption(qi, 1, "no")
	_ = e.MarkCorrect(qi, 0, true)
}

// echoIDs answers a bulk upsert with fresh server ids in request order.
func echoIDs(ids ...string) func([]dto.QuestionPayloadDTO) []model.Question {
	return func(payload []dto.QuestionPayloadDTO) []model.Question {
		out := make([]model.Question, len(payload))
		for i, p := range payload {
			out[i] = model.Question{ID: ids[i], Text: p.Text, IsExisting: true}
			if p.ExistingImageURL != "" {
				out[i].Attachment = &model.Attachment{URL: p.ExistingImageURL}
			}
		}
		return out
	}
}

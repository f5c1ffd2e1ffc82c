package admin

import (
	"context"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/dto"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/repository"
	"github.com/lshigami/acebrainiac/internal/transport"
)

const (
	NoticeCreateFailed    = "Failed to create test"
	NoticeSettingsFailed  = "Failed to save settings"
	NoticeQuestionsFailed = "Failed to save questions"
	NoticeDeleteFailed    = "Failed to delete question"
	NoticeLoadFailed      = "Failed to load test"
)

var (
	ErrNoSuchQuestion = errors.New("no such question")
	ErrNoSuchOption   = errors.New("no such option")
)

type EditorState int

const (
	// StateNew is a draft the backend does not know yet.
	StateNew EditorState = iota
	StatePersisted
)

func (s EditorState) String() string {
	if s == StatePersisted {
		return "persisted"
	}
	return "new"
}

// SettingsInput is the raw settings form. TotalMarks is coerced to an int.
type SettingsInput struct {
	Title                  string
	Subject                string
	Class                  string
	TotalMarks             string
	Status                 string
	CertificationAvailable bool
}

// TestEditor owns one test draft: its settings, its ordered questions and
// their attachments, and reconciles them with the backend.
//
// Local edits are synchronous. SaveSettings, SubmitQuestions and
// DeleteQuestion are serialized; the draft stays editable while they wait on
// the network.
type TestEditor struct {
	repo   repository.TestRepository
	stager Stager

	op sync.Mutex // serializes remote operations

	mu    sync.Mutex
	state EditorState
	test  model.Test
}

func NewTestEditor(repo repository.TestRepository, stager Stager) *TestEditor {
	return &TestEditor{
		repo:   repo,
		stager: stager,
		state:  StateNew,
		test: model.Test{
			Settings:  model.TestSettings{Status: model.StatusDraft},
			Questions: []model.Question{model.NewLocalQuestion()},
		},
	}
}

// LoadTestEditor opens an existing test for editing.
func LoadTestEditor(ctx context.Context, repo repository.TestRepository, stager Stager, id string) (*TestEditor, error) {
	test, err := repo.FindByIDWithQuestions(ctx, id)
	if err != nil {
		return nil, core.NewNoticeError(core.Notice(err, NoticeLoadFailed), err)
	}
	if test.ID == "" {
		test.ID = id
	}
	if len(test.Questions) == 0 {
		test.Questions = []model.Question{model.NewLocalQuestion()}
	}
	return &TestEditor{repo: repo, stager: stager, state: StatePersisted, test: *test}, nil
}

func (e *TestEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *TestEditor) TestID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.test.ID
}

// Snapshot returns a copy of the draft.
func (e *TestEditor) Snapshot() model.Test {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.test
	t.Questions = copyQuestions(e.test.Questions)
	return t
}

func (e *TestEditor) Questions() []model.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyQuestions(e.test.Questions)
}

// IndexOf returns the position of the question with id, or -1.
func (e *TestEditor) IndexOf(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexLocked(id)
}

// SaveSettings validates and stores the test settings, creating the test
// first when it is still new.
func (e *TestEditor) SaveSettings(ctx context.Context, in SettingsInput) error {
	settings := model.TestSettings{
		Title:                  strings.TrimSpace(in.Title),
		Subject:                strings.TrimSpace(in.Subject),
		Class:                  strings.TrimSpace(in.Class),
		TotalMarks:             coerceMarks(in.TotalMarks),
		Status:                 strings.ToUpper(strings.TrimSpace(in.Status)),
		CertificationAvailable: in.CertificationAvailable,
	}
	if settings.Status == "" {
		settings.Status = model.StatusDraft
	}
	if err := core.ValidateStruct(settings); err != nil {
		return err
	}

	e.op.Lock()
	defer e.op.Unlock()

	id, _, err := e.ensureCreated(ctx)
	if err != nil {
		return err
	}
	if err := e.repo.UpdateSettings(ctx, id, settings); err != nil {
		log.Error().Err(err).Str("test_id", id).Msg("Failed to save test settings")
		return core.NewNoticeError(core.Notice(err, NoticeSettingsFailed), err)
	}

	e.mu.Lock()
	e.test.Settings = settings
	e.mu.Unlock()
	log.Info().Str("test_id", id).Msg("Test settings saved")
	return nil
}

// SubmitQuestions validates every question and sends them in one bulk
// request. Nothing is sent if any question is invalid or an attachment is
// still staging.
func (e *TestEditor) SubmitQuestions(ctx context.Context) error {
	e.op.Lock()
	defer e.op.Unlock()

	e.mu.Lock()
	batch := make([]model.Question, len(e.test.Questions))
	for i, q := range e.test.Questions {
		batch[i] = trimmed(q)
	}
	e.mu.Unlock()

	for i, q := range batch {
		if err := validateQuestion(i, q); err != nil {
			return err
		}
	}
	for _, q := range batch {
		if q.Attachment != nil && q.Attachment.Pending {
			return core.NewNoticeError("Wait for the attachment upload to finish", ErrUploadPending)
		}
	}

	id, firstWrite, err := e.ensureCreated(ctx)
	if err != nil {
		return err
	}

	payload, files, closeFiles, err := buildPayload(batch)
	if err != nil {
		return core.NewNoticeError(NoticeQuestionsFailed, err)
	}
	saved, err := e.repo.UpsertQuestions(ctx, id, payload, files)
	closeFiles()
	if err != nil {
		log.Error().Err(err).Str("test_id", id).Int("questions", len(batch)).Msg("Bulk question save failed")
		return core.NewNoticeError(core.Notice(err, NoticeQuestionsFailed), err)
	}
	log.Info().Str("test_id", id).Int("questions", len(batch)).Bool("first_write", firstWrite).Msg("Questions saved")

	if firstWrite {
		e.mu.Lock()
		releaseAll(e.test.Questions)
		e.test.Questions = []model.Question{model.NewLocalQuestion()}
		e.mu.Unlock()
		return nil
	}
	if aligned(batch, saved) {
		e.adopt(batch, saved)
		return nil
	}
	return e.reload(ctx, id)
}

// DeleteQuestion removes the question at index. Questions that exist on the
// server are deleted remotely first and stay in the draft if that fails.
func (e *TestEditor) DeleteQuestion(ctx context.Context, index int) error {
	e.mu.Lock()
	q, ok := e.questionLocked(index)
	if !ok {
		e.mu.Unlock()
		return errors.Wrapf(ErrNoSuchQuestion, "index %d", index)
	}
	testID := e.test.ID
	if !q.IsExisting || q.ID == "" || testID == "" {
		e.removeLocked(index)
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	e.op.Lock()
	defer e.op.Unlock()
	if err := e.repo.DeleteQuestion(ctx, testID, q.ID); err != nil {
		log.Error().Err(err).Str("test_id", testID).Str("question_id", q.ID).Msg("Failed to delete question")
		return core.NewNoticeError(core.Notice(err, NoticeDeleteFailed), err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexLocked(q.ID); i >= 0 {
		e.removeLocked(i)
	}
	return nil
}

// AddQuestion appends an empty question and returns its index.
func (e *TestEditor) AddQuestion() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.test.Questions = append(e.test.Questions, model.NewLocalQuestion())
	return len(e.test.Questions) - 1
}

func (e *TestEditor) SetQuestionText(qi int, text string) error {
	return e.edit(qi, func(q *model.Question) error {
		q.Text = text
		return nil
	})
}

// AddOption appends an empty option and returns its index.
func (e *TestEditor) AddOption(qi int) (int, error) {
	var oi int
	err := e.edit(qi, func(q *model.Question) error {
		q.Options = append(q.Options, model.Option{})
		oi = len(q.Options) - 1
		return nil
	})
	return oi, err
}

func (e *TestEditor) RemoveOption(qi, oi int) error {
	return e.edit(qi, func(q *model.Question) error {
		if oi < 0 || oi >= len(q.Options) {
			return errors.Wrapf(ErrNoSuchOption, "question %d option %d", qi, oi)
		}
		q.Options = append(q.Options[:oi:oi], q.Options[oi+1:]...)
		return nil
	})
}

func (e *TestEditor) SetOption(qi, oi int, text string) error {
	return e.edit(qi, func(q *model.Question) error {
		if oi < 0 || oi >= len(q.Options) {
			return errors.Wrapf(ErrNoSuchOption, "question %d option %d", qi, oi)
		}
		q.Options[oi].Text = text
		return nil
	})
}

// MarkCorrect flags option oi of question qi as a correct answer or not.
func (e *TestEditor) MarkCorrect(qi, oi int, correct bool) error {
	return e.edit(qi, func(q *model.Question) error {
		if oi < 0 || oi >= len(q.Options) {
			return errors.Wrapf(ErrNoSuchOption, "question %d option %d", qi, oi)
		}
		q.Options[oi].IsCorrect = correct
		return nil
	})
}

// AttachFile stages r as the image of question qi. The returned Upload
// settles once the bytes are held locally; SubmitQuestions refuses to run
// while it is pending.
func (e *TestEditor) AttachFile(ctx context.Context, qi int, name string, r io.Reader) (*Upload, error) {
	e.mu.Lock()
	q, ok := e.questionLocked(qi)
	if !ok {
		e.mu.Unlock()
		return nil, errors.Wrapf(ErrNoSuchQuestion, "index %d", qi)
	}
	if q.Attachment != nil && q.Attachment.Pending {
		e.mu.Unlock()
		return nil, ErrUploadPending
	}
	release(q.Attachment)
	att := &model.Attachment{Name: name, Pending: true}
	e.test.Questions[qi].Attachment = att
	questionID := q.ID
	e.mu.Unlock()

	up := newUpload()
	go func() {
		staged, err := e.stager.Stage(ctx, name, r)

		e.mu.Lock()
		i := e.indexLocked(questionID)
		current := i >= 0 && e.test.Questions[i].Attachment == att
		switch {
		case !current:
			// Removed or replaced while staging.
			if staged != nil {
				release(&model.Attachment{Staged: staged})
			}
		case err != nil:
			e.test.Questions[i].Attachment = nil
		default:
			e.test.Questions[i].Attachment = &model.Attachment{Name: name, Staged: staged}
		}
		e.mu.Unlock()

		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Attachment staging failed")
		}
		up.finish(err)
	}()
	return up, nil
}

// RemoveAttachment drops the image of question qi. A staged file is released
// at once; a stored image is only unlinked from the draft.
func (e *TestEditor) RemoveAttachment(qi int) error {
	return e.edit(qi, func(q *model.Question) error {
		release(q.Attachment)
		q.Attachment = nil
		return nil
	})
}

// Close releases every staged attachment.
func (e *TestEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	releaseAll(e.test.Questions)
}

// ensureCreated returns the server id of the test, creating it while the
// draft is new. firstWrite reports whether this call performed the create.
func (e *TestEditor) ensureCreated(ctx context.Context) (id string, firstWrite bool, err error) {
	e.mu.Lock()
	id, state := e.test.ID, e.state
	e.mu.Unlock()
	if state == StatePersisted && id != "" {
		return id, false, nil
	}

	created, err := e.repo.Create(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create test")
		return "", false, core.NewNoticeError(NoticeCreateFailed, err)
	}
	e.mu.Lock()
	e.test.ID = created.ID
	e.test.CreatedAt = created.CreatedAt
	e.state = StatePersisted
	e.mu.Unlock()
	log.Info().Str("test_id", created.ID).Msg("Test created")
	return created.ID, true, nil
}

// adopt marks the submitted questions saved, taking ids and image URLs from
// the index-aligned response.
func (e *TestEditor) adopt(batch, saved []model.Question) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, sent := range batch {
		j := e.indexLocked(sent.ID)
		if j < 0 {
			continue
		}
		q := &e.test.Questions[j]
		q.ID = saved[i].ID
		q.IsExisting = true
		if sent.Attachment.Local() && q.Attachment == sent.Attachment {
			release(q.Attachment)
			q.Attachment = saved[i].Attachment
		} else if q.Attachment != nil && !q.Attachment.Local() && saved[i].Attachment != nil && saved[i].Attachment.URL != "" {
			q.Attachment = &model.Attachment{Name: q.Attachment.Name, URL: saved[i].Attachment.URL}
		}
	}
}

// aligned reports whether saved echoes batch closely enough to adopt in place:
// same length, a server id for every question and a stored URL for every
// uploaded file.
func aligned(batch, saved []model.Question) bool {
	if len(saved) != len(batch) {
		return false
	}
	for i, q := range batch {
		if !model.HasServerID(saved[i].ID) {
			return false
		}
		if q.Attachment.Local() && (saved[i].Attachment == nil || saved[i].Attachment.URL == "") {
			return false
		}
	}
	return true
}

func (e *TestEditor) reload(ctx context.Context, id string) error {
	test, err := e.repo.FindByIDWithQuestions(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("test_id", id).Msg("Questions saved but reload failed")
		return core.NewNoticeError(core.Notice(err, NoticeLoadFailed), err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	releaseAll(e.test.Questions)
	e.test.Questions = test.Questions
	if len(e.test.Questions) == 0 {
		e.test.Questions = []model.Question{model.NewLocalQuestion()}
	}
	return nil
}

func (e *TestEditor) edit(qi int, fn func(q *model.Question) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.questionLocked(qi); !ok {
		return errors.Wrapf(ErrNoSuchQuestion, "index %d", qi)
	}
	return fn(&e.test.Questions[qi])
}

func (e *TestEditor) questionLocked(i int) (model.Question, bool) {
	if i < 0 || i >= len(e.test.Questions) {
		return model.Question{}, false
	}
	return e.test.Questions[i], true
}

func (e *TestEditor) indexLocked(id string) int {
	for i, q := range e.test.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (e *TestEditor) removeLocked(i int) {
	release(e.test.Questions[i].Attachment)
	e.test.Questions = append(e.test.Questions[:i:i], e.test.Questions[i+1:]...)
}

// buildPayload encodes batch for the bulk endpoint. Staged files become parts
// named by question index; closeFiles must be called once the request is done.
func buildPayload(batch []model.Question) ([]dto.QuestionPayloadDTO, []transport.FilePart, func(), error) {
	var opened []io.Closer
	closeFiles := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}

	payload := make([]dto.QuestionPayloadDTO, len(batch))
	var files []transport.FilePart
	for i, q := range batch {
		p := dto.QuestionPayloadDTO{Text: q.Text, Options: make([]dto.OptionDTO, len(q.Options))}
		if q.IsExisting && model.HasServerID(q.ID) {
			p.ID = q.ID
		}
		for j, o := range q.Options {
			p.Options[j] = dto.OptionDTO{Text: o.Text, IsCorrect: o.IsCorrect}
		}
		switch {
		case q.Attachment.Local():
			rc, err := q.Attachment.Staged.Open()
			if err != nil {
				closeFiles()
				return nil, nil, func() {}, errors.Wrapf(err, "open attachment of question %d", i+1)
			}
			opened = append(opened, rc)
			files = append(files, transport.FilePart{Field: strconv.Itoa(i), Filename: q.Attachment.Name, Content: rc})
		case q.Attachment != nil && q.Attachment.URL != "":
			p.ExistingImageURL = q.Attachment.URL
		}
		payload[i] = p
	}
	return payload, files, closeFiles, nil
}

// coerceMarks parses the marks field, falling back to 0.
func coerceMarks(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func release(a *model.Attachment) {
	if !a.Local() {
		return
	}
	if err := a.Staged.Release(); err != nil {
		log.Warn().Err(err).Str("file", a.Name).Msg("Failed to release staged attachment")
	}
}

func releaseAll(qs []model.Question) {
	for _, q := range qs {
		release(q.Attachment)
	}
}

func copyQuestions(qs []model.Question) []model.Question {
	out := make([]model.Question, len(qs))
	for i, q := range qs {
		q.Options = append([]model.Option(nil), q.Options...)
		if q.Attachment != nil {
			a := *q.Attachment
			q.Attachment = &a
		}
		out[i] = q
	}
	return out
}

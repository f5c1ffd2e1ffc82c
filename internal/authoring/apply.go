package authoring

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/internal/controller/admin"
	"github.com/lshigami/acebrainiac/internal/model"
)

// Editor is the part of admin.TestEditor a draft is applied through.
type Editor interface {
	SaveSettings(ctx context.Context, in admin.SettingsInput) error
	SubmitQuestions(ctx context.Context) error
	Questions() []model.Question
	IndexOf(id string) int
	AddQuestion() int
	SetQuestionText(qi int, text string) error
	AddOption(qi int) (int, error)
	RemoveOption(qi, oi int) error
	SetOption(qi, oi int, text string) error
	MarkCorrect(qi, oi int, correct bool) error
	AttachFile(ctx context.Context, qi int, name string, r io.Reader) (*admin.Upload, error)
}

// Apply saves the draft settings, then merges its questions into the editor
// and submits them. Questions with an id replace the stored question of that
// id; the rest are added. Image paths are relative to baseDir.
func Apply(ctx context.Context, d *Draft, e Editor, baseDir string) error {
	if d.HasSettings() {
		if err := e.SaveSettings(ctx, d.Settings()); err != nil {
			return err
		}
	}
	if len(d.Questions) == 0 {
		return nil
	}

	for n, dq := range d.Questions {
		qi := target(e, dq)
		if qi < 0 {
			return errors.Errorf("question %d: no stored question %s", n+1, dq.ID)
		}
		if err := fill(e, qi, dq); err != nil {
			return errors.Wrapf(err, "question %d", n+1)
		}
		if dq.Image != "" {
			if err := attach(ctx, e, qi, filepath.Join(baseDir, dq.Image)); err != nil {
				return errors.Wrapf(err, "question %d", n+1)
			}
		}
	}
	log.Debug().Int("questions", len(d.Questions)).Msg("Draft applied")
	return e.SubmitQuestions(ctx)
}

// target picks the editor question a draft question lands in: the stored one
// for an id, else a blank unsaved question, else a new one.
func target(e Editor, dq DraftQuestion) int {
	if dq.ID != "" {
		return e.IndexOf(dq.ID)
	}
	for i, q := range e.Questions() {
		if !q.IsExisting && q.Text == "" && q.Attachment == nil && blank(q.Options) {
			return i
		}
	}
	return e.AddQuestion()
}

func blank(opts []model.Option) bool {
	for _, o := range opts {
		if o.Text != "" || o.IsCorrect {
			return false
		}
	}
	return true
}

func fill(e Editor, qi int, dq DraftQuestion) error {
	if err := e.SetQuestionText(qi, dq.Text); err != nil {
		return err
	}
	have := len(e.Questions()[qi].Options)
	for ; have < len(dq.Options); have++ {
		if _, err := e.AddOption(qi); err != nil {
			return err
		}
	}
	for ; have > len(dq.Options); have-- {
		if err := e.RemoveOption(qi, have-1); err != nil {
			return err
		}
	}
	for oi, o := range dq.Options {
		if err := e.SetOption(qi, oi, o.Text); err != nil {
			return err
		}
		if err := e.MarkCorrect(qi, oi, o.Correct); err != nil {
			return err
		}
	}
	return nil
}

func attach(ctx context.Context, e Editor, qi int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open image")
	}
	defer f.Close()
	up, err := e.AttachFile(ctx, qi, filepath.Base(path), f)
	if err != nil {
		return err
	}
	return up.Wait(ctx)
}

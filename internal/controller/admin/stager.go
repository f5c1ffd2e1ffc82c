package admin

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/model"
)

// MaxAttachmentSize bounds a staged question image.
const MaxAttachmentSize = 5 << 20

// Stager holds attachment bytes locally until the bulk question upload.
type Stager interface {
	Stage(ctx context.Context, name string, r io.Reader) (model.StagedFile, error)
}

// TempStager stages attachments as files under Dir (os.TempDir when empty).
type TempStager struct {
	Dir string
}

func NewTempStager(dir string) *TempStager {
	return &TempStager{Dir: dir}
}

func (s *TempStager) Stage(ctx context.Context, name string, r io.Reader) (model.StagedFile, error) {
	f, err := os.CreateTemp(s.Dir, "ace-attachment-*")
	if err != nil {
		return nil, errors.Wrap(err, "create staging file")
	}
	staged := &tempFile{name: name, path: f.Name()}

	n, err := io.Copy(f, io.LimitReader(ctxReader{ctx, r}, MaxAttachmentSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxAttachmentSize {
		err = core.NewValidationError(errors.New("attachment is larger than 5 MB"))
	}
	if err == nil {
		err = requireImage(staged.path)
	}
	if err != nil {
		_ = staged.Release()
		return nil, err
	}
	log.Debug().Str("file", name).Int64("bytes", n).Msg("Attachment staged")
	return staged, nil
}

func requireImage(path string) error {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return errors.Wrap(err, "detect attachment type")
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return core.NewValidationError(errors.Errorf("attachment must be an image, got %s", mt.String()))
	}
	return nil
}

type tempFile struct {
	name string
	path string
}

func (t *tempFile) Name() string { return t.name }

func (t *tempFile) Open() (io.ReadCloser, error) {
	return os.Open(t.path)
}

func (t *tempFile) Release() error {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove staged file %s", t.name)
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

package service

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/form"
	"github.com/lshigami/acebrainiac/internal/repository"
	"github.com/lshigami/acebrainiac/internal/transport"
)

// ResourceService manages one entity collection. Raw key=value input is bound
// through the entity form before anything is sent.
type ResourceService[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, input map[string]string) (*T, error)
	Update(ctx context.Context, id string, input map[string]string) (*T, error)
	Delete(ctx context.Context, id string) error
}

type resourceService[T any] struct {
	entity string
	repo   repository.ResourceRepository[T]
	schema form.Schema
}

func NewResourceService[T any](entity string, repo repository.ResourceRepository[T], schema form.Schema) ResourceService[T] {
	return &resourceService[T]{entity: entity, repo: repo, schema: schema}
}

func (s *resourceService[T]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, core.NewValidationError(errors.New("id is required"))
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(err, "load", id)
	}
	return v, nil
}

func (s *resourceService[T]) Create(ctx context.Context, input map[string]string) (*T, error) {
	bound, err := s.schema.Bind(input, false)
	if err != nil {
		return nil, err
	}
	files, closeFiles, err := openUploads(bound.Uploads)
	if err != nil {
		return nil, err
	}
	defer closeFiles()

	v, err := s.repo.Create(ctx, bound.Values, files)
	if err != nil {
		return nil, s.fail(err, "create", "")
	}
	log.Info().Str("entity", s.entity).Msg("Created")
	return v, nil
}

func (s *resourceService[T]) Update(ctx context.Context, id string, input map[string]string) (*T, error) {
	if id == "" {
		return nil, core.NewValidationError(errors.New("id is required"))
	}
	bound, err := s.schema.Bind(input, true)
	if err != nil {
		return nil, err
	}
	files, closeFiles, err := openUploads(bound.Uploads)
	if err != nil {
		return nil, err
	}
	defer closeFiles()

	v, err := s.repo.Update(ctx, id, bound.Values, files)
	if err != nil {
		return nil, s.fail(err, "update", id)
	}
	log.Info().Str("entity", s.entity).Str("id", id).Msg("Updated")
	return v, nil
}

func (s *resourceService[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.NewValidationError(errors.New("id is required"))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(err, "delete", id)
	}
	log.Info().Str("entity", s.entity).Str("id", id).Msg("Deleted")
	return nil
}

// fail logs err and wraps it so its notice is the backend message, else
// "Failed to <op> <entity>".
func (s *resourceService[T]) fail(err error, op, id string) error {
	log.Error().Err(err).Str("entity", s.entity).Str("id", id).Msgf("Failed to %s %s", op, s.entity)
	return core.NewNoticeError(core.Notice(err, "Failed to "+op+" "+s.entity), err)
}

func openUploads(uploads []form.Upload) ([]transport.FilePart, func(), error) {
	var opened []io.Closer
	closeAll := func() {
		for _, c := range opened {
			_ = c.Close()
		}
	}
	parts := make([]transport.FilePart, 0, len(uploads))
	for _, up := range uploads {
		f, err := os.Open(up.Path)
		if err != nil {
			closeAll()
			return nil, func() {}, errors.Wrapf(err, "open %s", up.Path)
		}
		opened = append(opened, f)
		parts = append(parts, transport.FilePart{Field: up.Field, Filename: up.Filename, Content: f})
	}
	return parts, closeAll, nil
}

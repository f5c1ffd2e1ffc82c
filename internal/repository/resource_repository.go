package repository

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cast"

	"github.com/lshigami/acebrainiac/internal/transport"
)

// ResourceRepository is the remote CRUD store of one entity collection.
type ResourceRepository[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	// Create and Update send JSON, or multipart when files are given.
	Create(ctx context.Context, payload map[string]interface{}, files []transport.FilePart) (*T, error)
	Update(ctx context.Context, id string, payload map[string]interface{}, files []transport.FilePart) (*T, error)
	Delete(ctx context.Context, id string) error
}

type resourceRepository[T any] struct {
	client   *transport.Client
	endpoint string
}

func NewResourceRepository[T any](client *transport.Client, endpoint string) ResourceRepository[T] {
	return &resourceRepository[T]{client: client, endpoint: endpoint}
}

func (r *resourceRepository[T]) itemPath(id string) string {
	return fmt.Sprintf("%s/%s", r.endpoint, url.PathEscape(id))
}

func (r *resourceRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	body, err := r.client.Get(ctx, r.itemPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decode[T](body)
}

func (r *resourceRepository[T]) Create(ctx context.Context, payload map[string]interface{}, files []transport.FilePart) (*T, error) {
	var body []byte
	var err error
	if len(files) > 0 {
		body, err = r.client.PostForm(ctx, r.endpoint, multipartForm(payload, files))
	} else {
		body, err = r.client.PostJSON(ctx, r.endpoint, payload)
	}
	if err != nil {
		return nil, err
	}
	return decode[T](body)
}

func (r *resourceRepository[T]) Update(ctx context.Context, id string, payload map[string]interface{}, files []transport.FilePart) (*T, error) {
	var body []byte
	var err error
	if len(files) > 0 {
		body, err = r.client.PutForm(ctx, r.itemPath(id), multipartForm(payload, files))
	} else {
		body, err = r.client.PutJSON(ctx, r.itemPath(id), payload)
	}
	if err != nil {
		return nil, err
	}
	return decode[T](body)
}

func (r *resourceRepository[T]) Delete(ctx context.Context, id string) error {
	_, err := r.client.Delete(ctx, r.itemPath(id))
	return err
}

func multipartForm(payload map[string]interface{}, files []transport.FilePart) *transport.Form {
	fields := make(map[string]string, len(payload))
	for k, v := range payload {
		fields[k] = cast.ToString(v)
	}
	return &transport.Form{Fields: fields, Files: files}
}

func decode[T any](body []byte) (*T, error) {
	var v T
	if len(body) == 0 {
		return &v, nil
	}
	if err := transport.DecodeData(body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

package main

import (
	"context"

	"github.com/lshigami/acebrainiac/internal/form"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/repository"
	"github.com/lshigami/acebrainiac/internal/service"
	"github.com/lshigami/acebrainiac/internal/transport"
)

// resource is the untyped face of a service.ResourceService used by the
// get/create/update/delete commands.
type resource interface {
	get(ctx context.Context, id string) (interface{}, error)
	create(ctx context.Context, input map[string]string) (interface{}, error)
	update(ctx context.Context, id string, input map[string]string) (interface{}, error)
	delete(ctx context.Context, id string) error
}

// Resources maps a collection name to its CRUD service.
type Resources map[string]resource

type typedResource[T any] struct {
	svc service.ResourceService[T]
}

func newResource[T any](client *transport.Client, entity, endpoint string, schema form.Schema) resource {
	repo := repository.NewResourceRepository[T](client, endpoint)
	return typedResource[T]{svc: service.NewResourceService[T](entity, repo, schema)}
}

func (r typedResource[T]) get(ctx context.Context, id string) (interface{}, error) {
	return r.svc.Get(ctx, id)
}

func (r typedResource[T]) create(ctx context.Context, input map[string]string) (interface{}, error) {
	return r.svc.Create(ctx, input)
}

func (r typedResource[T]) update(ctx context.Context, id string, input map[string]string) (interface{}, error) {
	return r.svc.Update(ctx, id, input)
}

func (r typedResource[T]) delete(ctx context.Context, id string) error {
	return r.svc.Delete(ctx, id)
}

func NewResources(client *transport.Client) Resources {
	return Resources{
		"students":    newResource[model.Student](client, "student", "/admin/students", form.Student),
		"schools":     newResource[model.School](client, "school", "/admin/schools", form.School),
		"classes":     newResource[model.Class](client, "class", "/admin/classes", form.Class),
		"memberships": newResource[model.Membership](client, "membership", "/admin/memberships", form.Membership),
		"worksheets":  newResource[model.Worksheet](client, "worksheet", "/admin/worksheets", form.Worksheet),
	}
}

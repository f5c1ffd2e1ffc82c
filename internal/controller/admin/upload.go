package admin

import (
	"context"

	"github.com/pkg/errors"
)

var ErrUploadPending = errors.New("attachment upload still in progress")

// Upload tracks one attachment being staged. Err is meaningful once Done is
// closed.
type Upload struct {
	done chan struct{}
	err  error
}

func newUpload() *Upload {
	return &Upload{done: make(chan struct{})}
}

func (u *Upload) Done() <-chan struct{} { return u.done }

func (u *Upload) Err() error {
	select {
	case <-u.done:
		return u.err
	default:
		return ErrUploadPending
	}
}

// Wait blocks until the upload settles or ctx is done.
func (u *Upload) Wait(ctx context.Context) error {
	select {
	case <-u.done:
		return u.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (u *Upload) finish(err error) {
	u.err = err
	close(u.done)
}

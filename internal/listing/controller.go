package listing

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/internal/core"
)

const DefaultDebounce = 500 * time.Millisecond

var ErrPageOutOfRange = errors.New("page out of range")

// Fetcher performs the GET of a collection endpoint. *transport.Client
// satisfies it.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Config parameterizes a Controller for one entity.
type Config[T any] struct {
	Name     string
	Endpoint string
	Limit    int
	Filters  []Filter
	Shape    Shape
	// Normalize overrides the Shape based decoding when set.
	Normalize Normalizer[T]
	Fallback  string
	Debounce  time.Duration
}

// State is a snapshot of a Controller.
type State[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
	Loading    bool
	Err        string
	Query      Query
}

// Controller keeps one page of a remote collection in sync with its Query.
// Free-text search is debounced, every other change fetches right away, and
// only the most recent request may update the state.
type Controller[T any] struct {
	cfg     Config[T]
	fetcher Fetcher

	mu       sync.Mutex
	query    Query
	state    State[T]
	seq      uint64
	inflight context.CancelFunc
	timer    *time.Timer
	timerGen uint64
	ctx      context.Context
	stop     context.CancelFunc
	closed   bool
}

func NewController[T any](fetcher Fetcher, cfg Config[T]) *Controller[T] {
	if cfg.Limit < 1 {
		cfg.Limit = 10
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Normalize == nil {
		cfg.Normalize = ShapeNormalizer[T](cfg.Shape)
	}
	if cfg.Fallback == "" {
		cfg.Fallback = "Failed to fetch " + cfg.Name
	}
	ctx, stop := context.WithCancel(context.Background())
	return &Controller[T]{
		cfg:     cfg,
		fetcher: fetcher,
		query:   Query{Page: 1, Limit: cfg.Limit, Filters: map[string]string{}},
		state:   State[T]{Items: []T{}, TotalPages: 1},
		ctx:     ctx,
		stop:    stop,
	}
}

func (c *Controller[T]) Name() string { return c.cfg.Name }

func (c *Controller[T]) Filters() []Filter { return c.cfg.Filters }

// Start issues the initial fetch. Requests are bound to ctx from here on.
func (c *Controller[T]) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stop()
	c.ctx, c.stop = context.WithCancel(ctx)
	c.fetchLocked()
}

// SetParam updates one query parameter. Changing the search text or a filter
// resets the page to 1. Search changes fetch after the debounce delay, other
// changes fetch immediately; neither blocks on the request.
func (c *Controller[T]) SetParam(name, value string) error {
	switch name {
	case ParamPage:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(ErrPageOutOfRange, "page %q", value)
		}
		return c.SetPage(n)
	case ParamLimit:
		return errors.Wrapf(ErrUnknownParam, "%s is fixed for %s", name, c.cfg.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}

	if name == ParamQuery {
		c.query.Search = value
		c.query.Page = 1
		c.debounceLocked()
		return nil
	}

	f, ok := findFilter(c.cfg.Filters, name)
	if !ok {
		return errors.Wrapf(ErrUnknownParam, "%s has no filter %q", c.cfg.Name, name)
	}
	normalized, err := normalizeValue(f, value)
	if err != nil {
		return err
	}
	if c.query.Filters[name] == normalized && c.query.Page == 1 {
		return nil
	}
	c.query.Filters[name] = normalized
	c.query.Page = 1
	c.stopTimerLocked()
	c.fetchLocked()
	return nil
}

// SetPage moves to page n. Pages outside [1, TotalPages] are rejected
// without a request.
func (c *Controller[T]) SetPage(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > c.state.TotalPages {
		return errors.Wrapf(ErrPageOutOfRange, "page %d of %d", n, c.state.TotalPages)
	}
	if c.closed || n == c.query.Page {
		return nil
	}
	c.query.Page = n
	c.stopTimerLocked()
	c.fetchLocked()
	return nil
}

// Refetch fetches with the current parameters now, dropping any pending
// debounced search, and waits until that request settles or ctx is done.
func (c *Controller[T]) Refetch(ctx context.Context) State[T] {
	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.snapshotLocked()
	}
	c.stopTimerLocked()
	done := c.fetchLocked()
	c.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
	}
	return c.State()
}

func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops the debounce timer and cancels the in-flight request. Responses
// arriving afterwards are discarded.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.stop()
	c.state.Loading = false
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	s.Items = append([]T(nil), c.state.Items...)
	s.Query = c.query.clone()
	return s
}

func (c *Controller[T]) debounceLocked() {
	c.stopTimerLocked()
	c.timerGen++
	gen := c.timerGen
	c.timer = time.AfterFunc(c.cfg.Debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.timerGen {
			return
		}
		c.timer = nil
		c.fetchLocked()
	})
}

func (c *Controller[T]) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

// fetchLocked supersedes any in-flight request and starts a new one. The
// returned channel is closed once the request has settled.
func (c *Controller[T]) fetchLocked() <-chan struct{} {
	c.seq++
	seq := c.seq
	if c.inflight != nil {
		c.inflight()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.inflight = cancel
	c.state.Loading = true
	query := c.query.clone()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		res, err := c.load(ctx, query)
		c.settle(seq, query, res, err)
	}()
	return done
}

func (c *Controller[T]) load(ctx context.Context, query Query) (Result[T], error) {
	body, err := c.fetcher.Get(ctx, c.cfg.Endpoint, query.Values(c.cfg.Filters))
	if err != nil {
		return Result[T]{}, err
	}
	res, err := c.cfg.Normalize(body, query.Limit)
	if errors.Is(err, ErrUnknownShape) {
		log.Warn().Str("entity", c.cfg.Name).Int("page", query.Page).Msg("Unrecognized list response, showing no items")
		return Result[T]{Items: []T{}, TotalPages: 1}, nil
	}
	return res, err
}

func (c *Controller[T]) settle(seq uint64, query Query, res Result[T], err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		log.Debug().Str("entity", c.cfg.Name).Uint64("seq", seq).Msg("Dropping superseded list response")
		return
	}
	c.inflight = nil
	c.state.Loading = false
	if err != nil {
		log.Error().Err(err).Str("entity", c.cfg.Name).Int("page", query.Page).Msg("List fetch failed")
		c.state.Items = []T{}
		c.state.TotalItems = 0
		c.state.TotalPages = 1
		c.state.Err = core.Notice(err, c.cfg.Fallback)
		return
	}
	c.state.Items = res.Items
	c.state.TotalItems = res.TotalItems
	c.state.TotalPages = res.TotalPages
	c.state.Err = ""
}

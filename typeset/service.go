package typeset

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 2 * time.Second
	DefaultCacheSize = 512
)

// Future is pending or finished conversion.
type Future struct {
	key    Key
	done   chan struct{}
	mathml string
	err    error
}

func (f *Future) Key() Key {
	return f.key
}

// Done is closed when result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether result is available.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until result is ready or ctx is done.
func (f *Future) Wait(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.mathml, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Service memoizes conversions. Completed entries are evicted oldest first
// once cache grows past its size. Service is safe for concurrent use.
type Service struct {
	backend Backend
	timeout time.Duration
	size    int
	log     *zap.Logger

	mu    sync.Mutex
	cache map[Key]*Future
	order []Key
}

// NewService creates service, nil backend makes every request fail with
// ErrUnavailable.
func NewService(backend Backend, timeout time.Duration, size int, log *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		backend: backend,
		timeout: timeout,
		size:    size,
		log:     log.Named("typeset"),
		cache:   make(map[Key]*Future),
	}
}

// Timeout returns per conversion time limit.
func (s *Service) Timeout() time.Duration {
	return s.timeout
}

// Request starts conversion unless the same key is cached or in flight.
func (s *Service) Request(tex string, display bool) *Future {
	key := NewKey(tex, display)

	s.mu.Lock()
	if f, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return f
	}
	f := &Future{key: key, done: make(chan struct{})}
	s.cache[key] = f
	s.order = append(s.order, key)
	s.evict()
	s.mu.Unlock()

	if s.backend == nil {
		f.err = ErrUnavailable
		close(f.done)
		return f
	}
	go s.run(f)
	return f
}

func (s *Service) run(f *Future) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	f.mathml, f.err = s.backend.Typeset(ctx, f.key.TeX, f.key.Display)
	if f.err != nil {
		s.log.Warn("Unable to typeset math, keeping source", zap.String("tex", f.key.TeX), zap.Error(f.err))
		if errors.Is(f.err, context.DeadlineExceeded) || errors.Is(f.err, context.Canceled) {
			s.forget(f)
		}
	}
	close(f.done)
}

// forget drops future from cache so that the next request retries.
func (s *Service) forget(f *Future) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache[f.key] == f {
		delete(s.cache, f.key)
	}
}

// evict removes oldest completed entries above size. Must be called with
// lock held.
func (s *Service) evict() {
	for i := 0; len(s.cache) > s.size && i < len(s.order); {
		key := s.order[i]
		f, ok := s.cache[key]
		if !ok {
			s.order = append(s.order[:i], s.order[i+1:]...)
			continue
		}
		if !f.Ready() {
			i++
			continue
		}
		delete(s.cache, key)
		s.order = append(s.order[:i], s.order[i+1:]...)
	}
}

// Len returns number of cached entries.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Lookup returns finished conversion without starting a new one.
func (s *Service) Lookup(tex string, display bool) (string, bool) {
	s.mu.Lock()
	f, ok := s.cache[NewKey(tex, display)]
	s.mu.Unlock()
	if !ok {
		return "", false
	}
	if !f.Ready() || f.err != nil {
		return "", false
	}
	return f.mathml, true
}

// Typeset requests conversion and waits for it within service timeout.
func (s *Service) Typeset(ctx context.Context, tex string, display bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.Request(tex, display).Wait(ctx)
}

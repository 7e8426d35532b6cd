package scheduler

import (
	"context"
	"sync"
)

// ContextLocks serializes task creation per project. A project's anchor date
// is scratch state: one creation may set it, compute offsets against it and
// clear it again, so two creations must never interleave on one project.
//
// The zero value is ready to use.
type ContextLocks struct {
	mu    sync.Mutex
	locks map[int64]*projectLock
}

type projectLock struct {
	sem  chan struct{}
	refs int
}

// Acquire blocks until the project's scheduling context is free or ctx is
// done. The returned release func is idempotent.
func (l *ContextLocks) Acquire(ctx context.Context, projectID int64) (func(), error) {
	pl := l.ref(projectID)
	select {
	case pl.sem <- struct{}{}:
	case <-ctx.Done():
		l.unref(projectID, pl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-pl.sem
			l.unref(projectID, pl)
		})
	}, nil
}

func (l *ContextLocks) ref(projectID int64) *projectLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[int64]*projectLock)
	}
	pl, ok := l.locks[projectID]
	if !ok {
		pl = &projectLock{sem: make(chan struct{}, 1)}
		l.locks[projectID] = pl
	}
	pl.refs++
	return pl
}

func (l *ContextLocks) unref(projectID int64, pl *projectLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pl.refs--
	if pl.refs == 0 {
		delete(l.locks, projectID)
	}
}

// held reports how many projects currently have waiters or a holder.
func (l *ContextLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

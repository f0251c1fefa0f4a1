package usecase_match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"

	"github.com/cinematch/core/internal/model"
	notifier_mocks "github.com/cinematch/core/internal/usecase/match/mocks/notifier"
	repo_mocks "github.com/cinematch/core/internal/usecase/match/mocks/repository"
)

type UsecaseMatchUnitSuite struct {
	suite.Suite
}

const testCode = "AB12CD"

func (suite *UsecaseMatchUnitSuite) TestIntersect(t provider.T) {
	t.Parallel()

	t.Run("Should be symmetric", func(t provider.T) {
		a := []int64{1, 2, 3}
		b := []int64{3, 7, 1}

		assert.Equal(t, Intersect(a, b), Intersect(b, a))
		assert.Equal(t, []int64{1, 3}, Intersect(a, b))
	})

	t.Run("Should intersect a set with itself to itself", func(t provider.T) {
		a := []int64{5, 9, 12}

		assert.Equal(t, []int64{5, 9, 12}, Intersect(a, a))
	})

	t.Run("Should return nothing for disjoint or empty sets", func(t provider.T) {
		assert.Empty(t, Intersect([]int64{1, 2}, []int64{3, 4}))
		assert.Empty(t, Intersect(nil, []int64{3, 4}))
		assert.Empty(t, Intersect([]int64{1, 2}, nil))
	})

	t.Run("Should count repeated ids once", func(t provider.T) {
		assert.Equal(t, []int64{7}, Intersect([]int64{7}, []int64{7, 7, 7}))
	})
}

func (suite *UsecaseMatchUnitSuite) TestReconcile(t provider.T) {
	t.Parallel()

	t.Run("Should persist and return newly intersecting ids", func(t provider.T) {
		repo := repo_mocks.NewMatchRepository(t)
		notifier := notifier_mocks.NewNotifier(t)
		detector := New(repo, nil, notifier)
		ctx := context.Background()

		repo.On("ByCode", ctx, testCode).
			Return(model.Room{
				Code:             testCode,
				Status:           model.StatusActive,
				CreatorLikes:     []int64{7, 42},
				ParticipantLikes: []int64{42, 99},
			}, nil).Once()
		repo.On("AppendMatches", ctx, testCode, []int64{42}).
			Return([]int64{42}, nil).Once()

		newly, err := detector.Reconcile(ctx, testCode)

		assert.NoError(t, err)
		assert.Equal(t, []int64{42}, newly)
	})

	t.Run("Should skip persistence when every match is already known", func(t provider.T) {
		repo := repo_mocks.NewMatchRepository(t)
		notifier := notifier_mocks.NewNotifier(t)
		detector := New(repo, nil, notifier)
		ctx := context.Background()

		repo.On("ByCode", ctx, testCode).
			Return(model.Room{
				Code:             testCode,
				Status:           model.StatusActive,
				CreatorLikes:     []int64{42},
				ParticipantLikes: []int64{42},
				MatchedMovieIDs:  []int64{42},
			}, nil).Once()

		newly, err := detector.Reconcile(ctx, testCode)

		assert.NoError(t, err)
		assert.Empty(t, newly)
		repo.AssertNotCalled(t, "AppendMatches")
	})

	t.Run("Should report only ids the persisted set did not hold", func(t provider.T) {
		repo := repo_mocks.NewMatchRepository(t)
		notifier := notifier_mocks.NewNotifier(t)
		detector := New(repo, nil, notifier)
		ctx := context.Background()

		// A concurrent reconciler persisted 42 between our read and our
		// write: the repository reports only 99 as new.
		repo.On("ByCode", ctx, testCode).
			Return(model.Room{
				Code:             testCode,
				Status:           model.StatusActive,
				CreatorLikes:     []int64{42, 99},
				ParticipantLikes: []int64{42, 99},
			}, nil).Once()
		repo.On("AppendMatches", ctx, testCode, []int64{42, 99}).
			Return([]int64{99}, nil).Once()

		newly, err := detector.Reconcile(ctx, testCode)

		assert.NoError(t, err)
		assert.Equal(t, []int64{99}, newly)
	})

	t.Run("Should surface room disappearance", func(t provider.T) {
		repo := repo_mocks.NewMatchRepository(t)
		notifier := notifier_mocks.NewNotifier(t)
		detector := New(repo, nil, notifier)
		ctx := context.Background()

		repo.On("ByCode", ctx, testCode).
			Return(model.Room{}, ErrRoomNotFound).Once()

		_, err := detector.Reconcile(ctx, testCode)

		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}

// fakeStore behaves like the real repository: AppendMatches unions into
// the persisted set and reports what was actually new. It keeps the Run
// tests deterministic regardless of how events coalesce.
type fakeStore struct {
	mu         sync.Mutex
	room       model.Room
	failAppend bool
}

func (f *fakeStore) ByCode(_ context.Context, _ string) (model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.room, nil
}

func (f *fakeStore) AppendMatches(_ context.Context, _ string, ids []int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAppend {
		return nil, errors.New("store unavailable")
	}

	known := make(map[int64]struct{}, len(f.room.MatchedMovieIDs))
	for _, id := range f.room.MatchedMovieIDs {
		known[id] = struct{}{}
	}

	var newly []int64
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			newly = append(newly, id)
			f.room.MatchedMovieIDs = append(f.room.MatchedMovieIDs, id)
		}
	}
	return newly, nil
}

func (f *fakeStore) setFailAppend(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAppend = fail
}

type fakeWatcher struct {
	ch      chan model.Room
	stopped chan struct{}
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		ch:      make(chan model.Room, 8),
		stopped: make(chan struct{}),
	}
}

func (f *fakeWatcher) Watch(_ context.Context, _ string) (<-chan model.Room, func(), error) {
	return f.ch, func() { close(f.stopped) }, nil
}

type collectingNotifier struct {
	events chan []int64
}

func (n *collectingNotifier) NotifyMatches(_ string, movieIDs []int64) {
	n.events <- movieIDs
}

func bothLiked(status model.Status) model.Room {
	return model.Room{
		Code:             testCode,
		CreatorID:        "creator-1",
		Status:           status,
		CreatorLikes:     []int64{42},
		ParticipantLikes: []int64{42},
	}
}

func (suite *UsecaseMatchUnitSuite) TestRunNotifiesExactlyOnce(t provider.T) {
	t.Parallel()

	store := &fakeStore{room: bothLiked(model.StatusActive)}
	watcher := newFakeWatcher()
	notifier := &collectingNotifier{events: make(chan []int64, 8)}
	detector := New(store, watcher, notifier)

	done := make(chan error, 1)
	go func() {
		done <- detector.Run(context.Background(), testCode)
	}()

	// First observed change discovers the match.
	watcher.ch <- bothLiked(model.StatusActive)

	select {
	case ids := <-notifier.events:
		assert.Equal(t, []int64{42}, ids)
	case <-time.After(time.Second):
		t.Fatal("expected a match notification")
	}

	// Re-delivering the same state must not notify again; the retired
	// snapshot then winds the detector down.
	watcher.ch <- bothLiked(model.StatusActive)
	watcher.ch <- bothLiked(model.StatusInactive)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("expected detector to stop on retired room")
	}

	assert.Empty(t, notifier.events)

	select {
	case <-watcher.stopped:
	default:
		t.Fatal("expected the watch subscription to be released")
	}
}

func (suite *UsecaseMatchUnitSuite) TestRunRetriesAfterPersistFailure(t provider.T) {
	t.Parallel()

	store := &fakeStore{room: bothLiked(model.StatusActive)}
	store.setFailAppend(true)
	watcher := newFakeWatcher()
	notifier := &collectingNotifier{events: make(chan []int64, 8)}
	detector := New(store, watcher, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- detector.Run(ctx, testCode)
	}()

	// Persisting fails: no user-visible match without a durable record.
	watcher.ch <- bothLiked(model.StatusActive)

	select {
	case <-notifier.events:
		t.Fatal("no notification may be emitted when persistence fails")
	case <-time.After(100 * time.Millisecond):
	}

	// The next change event retries and succeeds.
	store.setFailAppend(false)
	watcher.ch <- bothLiked(model.StatusActive)

	select {
	case ids := <-notifier.events:
		assert.Equal(t, []int64{42}, ids)
	case <-time.After(time.Second):
		t.Fatal("expected the retried reconcile to notify")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("expected detector to stop on cancellation")
	}
}

func TestUsecaseMatchUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseMatchUnitSuite))
}

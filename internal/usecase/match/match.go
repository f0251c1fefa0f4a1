package usecase_match

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/cinematch/core/internal/model"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrInternal     = errors.New("internal error")
)

//go:generate mockery --name=MatchRepository --output=./mocks/repository --filename=repository.go
type MatchRepository interface {
	ByCode(ctx context.Context, code string) (model.Room, error)
	// AppendMatches unions ids into the persisted matched set and returns
	// only the ids that were absent before this call. The union and the
	// prior-state read happen in one repository operation, so two
	// concurrent reconcilers never both claim the same id as new.
	AppendMatches(ctx context.Context, code string, ids []int64) ([]int64, error)
}

//go:generate mockery --name=Watcher --output=./mocks/watcher --filename=watcher.go
type Watcher interface {
	Watch(ctx context.Context, code string) (<-chan model.Room, func(), error)
}

//go:generate mockery --name=Notifier --output=./mocks/notifier --filename=notifier.go
type Notifier interface {
	NotifyMatches(code string, movieIDs []int64)
}

// Detector drives match discovery for rooms. It is event-driven: the like
// ledger never calls it directly, it reacts to snapshots arriving on the
// room's watch stream.
type Detector struct {
	matches  MatchRepository
	watcher  Watcher
	notifier Notifier

	logger *slog.Logger
}

func New(matches MatchRepository, watcher Watcher, notifier Notifier) *Detector {
	return &Detector{
		matches:  matches,
		watcher:  watcher,
		notifier: notifier,
		logger:   slog.Default(),
	}
}

// Intersect returns the ids present in both sets, ascending.
func Intersect(a, b []int64) []int64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}

	var common []int64
	for _, id := range b {
		if _, ok := seen[id]; ok {
			common = append(common, id)
			delete(seen, id) // ids may repeat in b, count each once
		}
	}

	slices.Sort(common)
	return common
}

// Reconcile recomputes the like-set intersection for a room, persists it
// into the matched set and returns the ids that were not persisted before.
// Already-known matches are never reported again.
func (d *Detector) Reconcile(ctx context.Context, code string) ([]int64, error) {
	room, err := d.matches.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}

	want := Intersect(room.CreatorLikes, room.ParticipantLikes)
	candidates := subtract(want, room.MatchedMovieIDs)
	if len(candidates) == 0 {
		return nil, nil
	}

	newly, err := d.matches.AppendMatches(ctx, code, candidates)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return newly, nil
}

// Run watches one room until ctx is cancelled, the stream closes or the
// room retires. Every observed change triggers a reconcile; newly
// persisted matches are pushed to the room's clients. A failed reconcile
// is not fatal, the next change event retries it — but nothing is
// notified unless its persist succeeded first.
func (d *Detector) Run(ctx context.Context, code string) error {
	snapshots, stop, err := d.watcher.Watch(ctx, code)
	if err != nil {
		return err
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case room, ok := <-snapshots:
			if !ok {
				return nil
			}
			// Only the latest snapshot matters: reconciliation diffs
			// against persisted state, so queued intermediates are
			// safe to skip.
			room, ok = drain(snapshots, room)

			newly, err := d.Reconcile(ctx, code)
			if err != nil {
				d.logger.Error("reconcile failed, waiting for next change",
					slog.String("room", code),
					slog.String("error", err.Error()))
			} else if len(newly) > 0 {
				d.notifier.NotifyMatches(code, newly)
			}

			if !ok || !room.IsActive() {
				return nil
			}
		}
	}
}

// drain empties queued snapshots, keeping the newest. The second return
// is false once the stream has closed.
func drain(snapshots <-chan model.Room, latest model.Room) (model.Room, bool) {
	for {
		select {
		case newer, ok := <-snapshots:
			if !ok {
				return latest, false
			}
			latest = newer
		default:
			return latest, true
		}
	}
}

func subtract(ids, known []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}

	exclude := make(map[int64]struct{}, len(known))
	for _, id := range known {
		exclude[id] = struct{}{}
	}

	var rest []int64
	for _, id := range ids {
		if _, ok := exclude[id]; !ok {
			rest = append(rest, id)
		}
	}
	return rest
}

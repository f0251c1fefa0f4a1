package usecase_room

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cinematch/core/internal/model"
)

var (
	ErrCodeConflict     = errors.New("code conflict")
	ErrRoomsUnavailable = errors.New("no available room codes")
	ErrRoomInactive     = errors.New("room inactive")
	ErrInternal         = errors.New("internal error")
	ErrResourceNotFound = errors.New("no such resource")
)

//go:generate mockery --name=RoomRepository --output=./mocks/repository --filename=repository.go
type RoomRepository interface {
	// Create is a conditional insert: it must fail with ErrCodeConflict
	// when a room with the same code already exists, never overwrite it.
	Create(ctx context.Context, room model.Room) error
	ByCode(ctx context.Context, code string) (model.Room, error)
	// AddConnectedUser performs a set-union add of userID into the
	// connected set of an active room and returns the fresh snapshot.
	AddConnectedUser(ctx context.Context, code string, userID string) (model.Room, error)
	SetStatusByCode(ctx context.Context, code string, status model.Status) error

	CleanupStaleRooms(ctx context.Context, retiredDeadline time.Duration) error
}

//go:generate mockery --name=Publisher --output=./mocks/publisher --filename=publisher.go
type Publisher interface {
	Publish(ctx context.Context, room model.Room) error
}

//go:generate mockery --name=Watcher --output=./mocks/watcher --filename=watcher.go
type Watcher interface {
	// Watch emits the current snapshot first, then one snapshot per
	// observed change. The returned stop func releases the subscription
	// and must be called by the consumer.
	Watch(ctx context.Context, code string) (<-chan model.Room, func(), error)
}

type Usecase struct {
	rooms     RoomRepository
	publisher Publisher
	watcher   Watcher

	// Stale-room cleanup is amortized over every Nth create. The counter
	// is atomic, creates arrive on concurrent requests.
	cleanupPeriod int64
	createsCount  atomic.Int64
}

func New(
	rooms RoomRepository,
	publisher Publisher,
	watcher Watcher,
	cleanup int64,
) *Usecase {
	if cleanup <= 0 {
		cleanup = 20 /* default */
	}

	return &Usecase{
		rooms:         rooms,
		publisher:     publisher,
		watcher:       watcher,
		cleanupPeriod: cleanup,
	}
}

// Create mints a room under a fresh code with the caller as creator.
func (u *Usecase) Create(ctx context.Context, creatorID string) (model.Room, error) {
	if u.createsCount.Add(1)%u.cleanupPeriod == 0 {
		if err := u.rooms.CleanupStaleRooms(ctx, time.Hour*24); err != nil {
			return model.Room{}, errors.Join(ErrInternal, err)
		}
	}

	return u.createWithFreshCode(ctx, creatorID)
}

// Codes are drawn without collision avoidance, so conflicting inserts are
// expected. Retrying with a new code.
func (u *Usecase) createWithFreshCode(ctx context.Context, creatorID string) (model.Room, error) {
	var retries = 3
	for retries > 0 {
		room := model.Room{
			Code:           u.buildRoomCode(),
			CreatorID:      creatorID,
			ConnectedUsers: []string{creatorID},
			Status:         model.StatusActive,
		}
		if err := u.rooms.Create(ctx, room); err != nil {
			if errors.Is(err, ErrCodeConflict) {
				retries--
				continue
			}
			return model.Room{}, errors.Join(ErrInternal, err)
		}
		return room, nil
	}
	return model.Room{}, ErrRoomsUnavailable
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (u *Usecase) buildRoomCode() string {
	const codeLen = 6
	var builder strings.Builder
	builder.Grow(codeLen)

	for i := 0; i < codeLen; i++ {
		builder.WriteByte(roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))])
	}

	return builder.String()
}

// Join adds userID to the connected set of an active room. Concurrent
// joins both land since the repository add is a set union, not an
// overwrite.
func (u *Usecase) Join(ctx context.Context, code string, userID string) (model.Room, error) {
	room, err := u.rooms.AddConnectedUser(ctx, code, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrResourceNotFound):
			return model.Room{}, ErrResourceNotFound
		case errors.Is(err, ErrRoomInactive):
			return model.Room{}, ErrRoomInactive
		}
		return model.Room{}, errors.Join(ErrInternal, err)
	}

	if err := u.publisher.Publish(ctx, room); err != nil {
		return model.Room{}, errors.Join(ErrInternal, err)
	}

	return room, nil
}

// Retire moves the room to the terminal inactive status. Retiring an
// already inactive room is a no-op.
func (u *Usecase) Retire(ctx context.Context, code string) error {
	if err := u.rooms.SetStatusByCode(ctx, code, model.StatusInactive); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return ErrResourceNotFound
		}
		return errors.Join(ErrInternal, err)
	}

	room, err := u.rooms.ByCode(ctx, code)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if err := u.publisher.Publish(ctx, room); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

func (u *Usecase) IsCreator(ctx context.Context, code string, userID string) (bool, error) {
	room, err := u.rooms.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return false, ErrResourceNotFound
		}
		return false, errors.Join(ErrInternal, err)
	}

	return room.CreatorID == userID, nil
}

func (u *Usecase) Snapshot(ctx context.Context, code string) (model.Room, error) {
	room, err := u.rooms.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return model.Room{}, ErrResourceNotFound
		}
		return model.Room{}, errors.Join(ErrInternal, err)
	}
	return room, nil
}

func (u *Usecase) Watch(ctx context.Context, code string) (<-chan model.Room, func(), error) {
	snapshots, stop, err := u.watcher.Watch(ctx, code)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return nil, nil, ErrResourceNotFound
		}
		return nil, nil, errors.Join(ErrInternal, err)
	}
	return snapshots, stop, nil
}

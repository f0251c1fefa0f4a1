package usecase_like

import (
	"context"
	"errors"

	"github.com/cinematch/core/internal/model"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomInactive = errors.New("room inactive")
	ErrInternal     = errors.New("internal error")
)

//go:generate mockery --name=LikeRepository --output=./mocks/repository --filename=repository.go
type LikeRepository interface {
	ByCode(ctx context.Context, code string) (model.Room, error)
	// AppendLike adds movieID to the like set of the given role with set
	// union semantics and returns the fresh snapshot. The bool reports
	// whether the set actually grew (false on a duplicate like).
	AppendLike(ctx context.Context, code string, role model.Role, movieID int64) (model.Room, bool, error)
}

//go:generate mockery --name=Publisher --output=./mocks/publisher --filename=publisher.go
type Publisher interface {
	Publish(ctx context.Context, room model.Room) error
}

type Usecase struct {
	likes     LikeRepository
	publisher Publisher
}

func New(likes LikeRepository, publisher Publisher) *Usecase {
	return &Usecase{
		likes:     likes,
		publisher: publisher,
	}
}

// Record appends a like to the set of the role userID resolves to.
// Repeating a like is a silent no-op: the set does not grow and no change
// event is published.
func (u *Usecase) Record(ctx context.Context, code string, userID string, movieID int64) error {
	// Fresh read before the write: role resolution must use the latest
	// creator id, and the append below unions against current state.
	room, err := u.likes.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return errors.Join(ErrInternal, err)
	}
	if !room.IsActive() {
		return ErrRoomInactive
	}

	room, added, err := u.likes.AppendLike(ctx, code, room.RoleOf(userID), movieID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		return errors.Join(ErrInternal, err)
	}
	if !added {
		return nil
	}

	if err := u.publisher.Publish(ctx, room); err != nil {
		return errors.Join(ErrInternal, err)
	}
	return nil
}

package infra_redis_watch

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/go-redis/redis"

	"github.com/cinematch/core/internal/model"
)

// Room change events ride on one pub/sub channel per room code. Every
// successful mutation publishes the full fresh snapshot, never a diff, so
// a subscriber can act on any single message in isolation.

const channelPrefix = "room:"

// Buffered so a briefly slow consumer does not stall the pump; on
// overflow the oldest snapshot is dropped, only the latest matters.
const watchBuffer = 8

type RoomReader interface {
	ByCode(ctx context.Context, code string) (model.Room, error)
}

type Driver struct {
	client *redis.Client
	reader RoomReader
	logger *slog.Logger
}

func New(client *redis.Client, reader RoomReader) *Driver {
	return &Driver{
		client: client,
		reader: reader,
		logger: slog.Default(),
	}
}

type roomDTO struct {
	Code             string   `json:"code"`
	CreatorID        string   `json:"creator_id"`
	ConnectedUsers   []string `json:"connected_users"`
	Status           string   `json:"status"`
	CreatorLikes     []int64  `json:"creator_likes"`
	ParticipantLikes []int64  `json:"participant_likes"`
	MatchedMovieIDs  []int64  `json:"matched_movie_ids"`
}

func toDTO(room model.Room) roomDTO {
	return roomDTO{
		Code:             room.Code,
		CreatorID:        room.CreatorID,
		ConnectedUsers:   room.ConnectedUsers,
		Status:           room.Status,
		CreatorLikes:     room.CreatorLikes,
		ParticipantLikes: room.ParticipantLikes,
		MatchedMovieIDs:  room.MatchedMovieIDs,
	}
}

func (dto roomDTO) toModel() model.Room {
	return model.Room{
		Code:             dto.Code,
		CreatorID:        dto.CreatorID,
		ConnectedUsers:   dto.ConnectedUsers,
		Status:           dto.Status,
		CreatorLikes:     dto.CreatorLikes,
		ParticipantLikes: dto.ParticipantLikes,
		MatchedMovieIDs:  dto.MatchedMovieIDs,
	}
}

func channelFor(code string) string {
	return channelPrefix + code
}

func (d *Driver) Publish(ctx context.Context, room model.Room) error {
	payload, err := json.Marshal(toDTO(room))
	if err != nil {
		return err
	}
	return d.client.Publish(channelFor(room.Code), payload).Err()
}

// Watch subscribes to the room's channel and emits the current snapshot
// first. The returned stop func releases the server-side subscription;
// not calling it leaks the listener, so consumers must defer it.
func (d *Driver) Watch(ctx context.Context, code string) (<-chan model.Room, func(), error) {
	initial, err := d.reader.ByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	pubsub := d.client.Subscribe(channelFor(code))

	out := make(chan model.Room, watchBuffer)
	out <- initial

	go d.pump(ctx, code, pubsub, out)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				d.logger.Error("failed to close subscription",
					slog.String("room", code),
					slog.String("error", err.Error()))
			}
		})
	}
	return out, stop, nil
}

func (d *Driver) pump(ctx context.Context, code string, pubsub *redis.PubSub, out chan model.Room) {
	defer close(out)

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var dto roomDTO
			if err := json.Unmarshal([]byte(msg.Payload), &dto); err != nil {
				d.logger.Error("malformed room event",
					slog.String("room", code),
					slog.String("error", err.Error()))
				continue
			}

			select {
			case out <- dto.toModel():
			default:
				// Consumer lags: drop the oldest queued snapshot.
				select {
				case <-out:
				default:
				}
				out <- dto.toModel()
			}
		}
	}
}

package infra_postgres_room

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cinematch/core/internal/model"
	usecase_room "github.com/cinematch/core/internal/usecase/room"
)

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

type roomDTO struct {
	Code             string         `db:"code"`
	CreatorID        string         `db:"creator_id"`
	ConnectedUsers   pq.StringArray `db:"connected_users"`
	Status           string         `db:"status"`
	CreatorLikes     pq.Int64Array  `db:"creator_likes"`
	ParticipantLikes pq.Int64Array  `db:"participant_likes"`
	MatchedMovieIDs  pq.Int64Array  `db:"matched_movie_ids"`
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

const roomColumns = `code, creator_id, connected_users, status, creator_likes, participant_likes, matched_movie_ids`

// Create inserts the room document. The primary key on code makes this a
// compare-and-set: an existing room is never overwritten.
func (d *Driver) Create(ctx context.Context, room model.Room) error {
	query := `
		INSERT INTO rooms (code, creator_id, connected_users, status)
		VALUES ($1, $2, $3, $4)
	`

	_, err := d.db.ExecContext(ctx, query,
		room.Code,
		room.CreatorID,
		pq.StringArray(room.ConnectedUsers),
		room.Status,
	)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "duplicate key") {
			return usecase_room.ErrCodeConflict
		}
		return err
	}
	return nil
}

func (d *Driver) ByCode(ctx context.Context, code string) (model.Room, error) {
	var room roomDTO

	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE code = $1
	`

	err := d.db.GetContext(ctx, &room, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Room{}, usecase_room.ErrResourceNotFound
		}
		return model.Room{}, err
	}

	return room.toModel(), nil
}

// AddConnectedUser unions userID into connected_users in one statement, so
// two concurrent joins both land. Joining twice is a no-op.
func (d *Driver) AddConnectedUser(ctx context.Context, code string, userID string) (model.Room, error) {
	var room roomDTO

	query := `
		UPDATE rooms
		SET connected_users = CASE
				WHEN $2 = ANY(connected_users) THEN connected_users
				ELSE array_append(connected_users, $2)
			END,
			updated_at = now()
		WHERE code = $1 AND status = $3
		RETURNING ` + roomColumns + `
	`

	err := d.db.GetContext(ctx, &room, query, code, userID, model.StatusActive)
	if err == nil {
		return room.toModel(), nil
	}
	if err != sql.ErrNoRows {
		return model.Room{}, err
	}

	// No active row. Either the code is unknown or the room is retired.
	var status string
	err = d.db.GetContext(ctx, &status, `SELECT status FROM rooms WHERE code = $1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Room{}, usecase_room.ErrResourceNotFound
		}
		return model.Room{}, err
	}
	return model.Room{}, usecase_room.ErrRoomInactive
}

func (d *Driver) SetStatusByCode(ctx context.Context, code string, status model.Status) error {
	query := `
		UPDATE rooms
		SET status = $1, updated_at = now()
		WHERE code = $2
	`

	result, err := d.db.ExecContext(ctx, query, status, code)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return usecase_room.ErrResourceNotFound
	}

	return nil
}

// CleanupStaleRooms drops retired rooms that have been idle past the
// deadline. Rooms are never deleted by user action, this is the only
// reclamation path.
func (d *Driver) CleanupStaleRooms(ctx context.Context, retiredDeadline time.Duration) error {
	query := `
		DELETE FROM rooms
		WHERE status = $1 AND updated_at < $2
	`

	_, err := d.db.ExecContext(ctx, query, model.StatusInactive, time.Now().Add(-retiredDeadline))
	return err
}

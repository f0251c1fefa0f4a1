package infra_postgres_like

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cinematch/core/internal/model"
	usecase_like "github.com/cinematch/core/internal/usecase/like"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
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
			return model.Room{}, usecase_like.ErrRoomNotFound
		}
		return model.Room{}, err
	}

	return room.toModel(), nil
}

// AppendLike unions movieID into the role's like column in a single
// guarded statement: a duplicate like matches zero rows and leaves the
// set untouched.
func (d *Driver) AppendLike(ctx context.Context, code string, role model.Role, movieID int64) (model.Room, bool, error) {
	column := "participant_likes"
	if role == model.RoleCreator {
		column = "creator_likes"
	}

	query := fmt.Sprintf(`
		UPDATE rooms
		SET %[1]s = array_append(%[1]s, $2), updated_at = now()
		WHERE code = $1 AND NOT ($2 = ANY(%[1]s))
		RETURNING `+roomColumns, column)

	var room roomDTO
	err := d.db.GetContext(ctx, &room, query, code, movieID)
	if err == nil {
		return room.toModel(), true, nil
	}
	if err != sql.ErrNoRows {
		return model.Room{}, false, err
	}

	// Zero rows: duplicate like or unknown code.
	current, err := d.ByCode(ctx, code)
	if err != nil {
		return model.Room{}, false, err
	}
	return current, false, nil
}

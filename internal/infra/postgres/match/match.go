package infra_postgres_match

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cinematch/core/internal/model"
	usecase_match "github.com/cinematch/core/internal/usecase/match"
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

func (d *Driver) ByCode(ctx context.Context, code string) (model.Room, error) {
	var room roomDTO

	query := `
		SELECT code, creator_id, connected_users, status, creator_likes, participant_likes, matched_movie_ids
		FROM rooms
		WHERE code = $1
	`

	err := d.db.GetContext(ctx, &room, query, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Room{}, usecase_match.ErrRoomNotFound
		}
		return model.Room{}, err
	}

	return room.toModel(), nil
}

// AppendMatches unions ids into matched_movie_ids while locking the row
// and returning the set as it was before the union. Diffing against that
// prior set is what keeps a match reported once even when two
// reconcilers race on the same snapshot.
func (d *Driver) AppendMatches(ctx context.Context, code string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		WITH prev AS (
			SELECT matched_movie_ids
			FROM rooms
			WHERE code = $1
			FOR UPDATE
		)
		UPDATE rooms r
		SET matched_movie_ids = (
				SELECT ARRAY(
					SELECT DISTINCT m
					FROM unnest(r.matched_movie_ids || $2::bigint[]) AS m
					ORDER BY m
				)
			),
			updated_at = now()
		FROM prev
		WHERE r.code = $1
		RETURNING prev.matched_movie_ids
	`

	var prior pq.Int64Array
	err := d.db.GetContext(ctx, &prior, query, code, pq.Int64Array(ids))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, usecase_match.ErrRoomNotFound
		}
		return nil, err
	}

	known := make(map[int64]struct{}, len(prior))
	for _, id := range prior {
		known[id] = struct{}{}
	}

	var newly []int64
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			newly = append(newly, id)
		}
	}
	return newly, nil
}

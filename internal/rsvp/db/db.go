package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-calendar/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetResponse(ctx context.Context, userID, eventID string) (*models.UserEventResponse, error) {
	var resp models.UserEventResponse
	err := d.Bun.NewSelect().
		Model(&resp).
		Where("user_id = ?", userID).
		Where("event_id = ?", eventID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upsert writes the response, updating in place when a row for the
// (user, event) pair already exists. The unique constraint keeps concurrent
// writers from producing duplicate rows; whoever writes last wins.
func (d *DB) Upsert(ctx context.Context, resp models.UserEventResponse) error {
	_, err := d.Bun.NewInsert().
		Model(&resp).
		On("CONFLICT (user_id, event_id) DO UPDATE").
		Set("response_status = EXCLUDED.response_status").
		Set("notes = EXCLUDED.notes").
		Set("response_date = EXCLUDED.response_date").
		Exec(ctx)
	return err
}

func (d *DB) Delete(ctx context.Context, userID, eventID string) (int64, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.UserEventResponse)(nil)).
		Where("user_id = ?", userID).
		Where("event_id = ?", eventID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/natindo/LectureWizard/internal/models"
)

// PostgresStore хранит лекции в PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const pgLectureColumns = `id, chat_id, title, icon, start_date, end_date, notify_before, notified`

func scanPgLecture(row pgx.Row) (*models.Lecture, error) {
	var l models.Lecture
	err := row.Scan(&l.ID, &l.ChatID, &l.Title, &l.Icon, &l.StartDate, &l.EndDate, &l.NotifyBefore, &l.Notified)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresStore) CreateLecture(ctx context.Context, l *models.Lecture) (int64, error) {
	var newID int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
INSERT INTO lectures (chat_id, title, icon, start_date, end_date, notify_before, notified)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`, l.ChatID, l.Title, l.Icon, l.StartDate, l.EndDate, l.NotifyBefore, l.Notified).Scan(&newID)
		if err != nil {
			return err
		}
		return pgWriteChildren(ctx, tx, newID, l)
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert lecture")
	}
	return newID, nil
}

func (s *PostgresStore) UpdateLecture(ctx context.Context, l *models.Lecture) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// При переносе начала напоминание отправляется заново.
		err := tx.QueryRow(ctx, `
UPDATE lectures
SET title = $3, icon = $4, start_date = $5, end_date = $6, notify_before = $7,
    notified = CASE WHEN start_date IS NOT DISTINCT FROM $5 THEN $8 ELSE false END
WHERE chat_id = $1 AND id = $2
RETURNING notified
`, l.ChatID, l.ID, l.Title, l.Icon, l.StartDate, l.EndDate, l.NotifyBefore, l.Notified).Scan(&l.Notified)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM lecture_units WHERE lecture_id = $1`, l.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM attachments WHERE lecture_id = $1`, l.ID); err != nil {
			return err
		}
		return pgWriteChildren(ctx, tx, l.ID, l)
	})
	return errors.Wrap(err, "update lecture")
}

func pgWriteChildren(ctx context.Context, tx pgx.Tx, lectureID int64, l *models.Lecture) error {
	batch := &pgx.Batch{}
	for _, u := range l.Units {
		batch.Queue(`INSERT INTO lecture_units (lecture_id, position, name) VALUES ($1, $2, $3)`,
			lectureID, u.Position, u.Name)
	}
	for _, a := range l.Attachments {
		batch.Queue(`INSERT INTO attachments (lecture_id, name, link, kind) VALUES ($1, $2, $3, $4)`,
			lectureID, a.Name, a.Link, a.Kind)
	}
	if batch.Len() == 0 {
		return nil
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (s *PostgresStore) GetLecture(ctx context.Context, chatID, id int64) (*models.Lecture, error) {
	row := s.pool.QueryRow(ctx, `
SELECT `+pgLectureColumns+`
FROM lectures
WHERE chat_id = $1 AND id = $2
`, chatID, id)

	l, err := scanPgLecture(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get lecture")
	}
	if err := s.loadChildren(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *PostgresStore) loadChildren(ctx context.Context, l *models.Lecture) error {
	rows, err := s.pool.Query(ctx, `
SELECT id, lecture_id, position, name
FROM lecture_units
WHERE lecture_id = $1
ORDER BY position
`, l.ID)
	if err != nil {
		return errors.Wrap(err, "load units")
	}
	l.Units, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LectureUnit, error) {
		var u models.LectureUnit
		err := row.Scan(&u.ID, &u.LectureID, &u.Position, &u.Name)
		return u, err
	})
	if err != nil {
		return errors.Wrap(err, "scan units")
	}

	rows, err = s.pool.Query(ctx, `
SELECT id, lecture_id, name, link, kind
FROM attachments
WHERE lecture_id = $1
ORDER BY id
`, l.ID)
	if err != nil {
		return errors.Wrap(err, "load attachments")
	}
	l.Attachments, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Attachment, error) {
		var a models.Attachment
		err := row.Scan(&a.ID, &a.LectureID, &a.Name, &a.Link, &a.Kind)
		return a, err
	})
	return errors.Wrap(err, "scan attachments")
}

func (s *PostgresStore) queryLectures(ctx context.Context, sql string, args ...any) ([]models.Lecture, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Lecture
	for rows.Next() {
		l, err := scanPgLecture(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	return result, rows.Err()
}

func (s *PostgresStore) ListUpcoming(ctx context.Context, chatID int64, now time.Time) ([]models.Lecture, error) {
	lectures, err := s.queryLectures(ctx, `
SELECT `+pgLectureColumns+`
FROM lectures
WHERE chat_id = $1
  AND (start_date IS NULL OR start_date >= $2)
ORDER BY start_date NULLS LAST, id
`, chatID, startOfDay(now))
	if err != nil {
		return nil, errors.Wrap(err, "list lectures")
	}
	for i := range lectures {
		if err := s.loadChildren(ctx, &lectures[i]); err != nil {
			return nil, err
		}
	}
	return lectures, nil
}

func (s *PostgresStore) DeleteLecture(ctx context.Context, chatID, id int64) error {
	tag, err := s.pool.Exec(ctx, `
DELETE FROM lectures
WHERE chat_id = $1 AND id = $2
`, chatID, id)
	if err != nil {
		return errors.Wrap(err, "delete lecture")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) LecturesToNotify(ctx context.Context, now time.Time) ([]models.Lecture, error) {
	lectures, err := s.queryLectures(ctx, `
SELECT `+pgLectureColumns+`
FROM lectures
WHERE notified = false
  AND start_date IS NOT NULL
  AND start_date > $1
  AND (start_date - $1) <= (notify_before * INTERVAL '1 minute')
`, now)
	return lectures, errors.Wrap(err, "find lectures to notify")
}

func (s *PostgresStore) MarkNotified(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `
UPDATE lectures
SET notified = true
WHERE id = $1
`, id)
	return errors.Wrap(err, "mark notified")
}

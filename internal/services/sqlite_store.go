package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/natindo/LectureWizard/internal/models"
)

// SQLiteStore хранит лекции в SQLite. Используется для локального запуска и тестов.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const sqliteLectureColumns = `id, chat_id, title, icon, start_date, end_date, notify_before, notified`

func toUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLecture(row scanner) (*models.Lecture, error) {
	var (
		l          models.Lecture
		start, end sql.NullInt64
	)
	err := row.Scan(&l.ID, &l.ChatID, &l.Title, &l.Icon, &start, &end, &l.NotifyBefore, &l.Notified)
	if err != nil {
		return nil, err
	}
	l.StartDate = fromUnix(start)
	l.EndDate = fromUnix(end)
	return &l, nil
}

// withTx выполняет fn в транзакции и откатывает её при ошибке.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateLecture(ctx context.Context, l *models.Lecture) (int64, error) {
	var newID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO lectures (chat_id, title, icon, start_date, end_date, notify_before, notified)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, l.ChatID, l.Title, l.Icon, toUnix(l.StartDate), toUnix(l.EndDate), l.NotifyBefore, l.Notified)
		if err != nil {
			return err
		}
		if newID, err = res.LastInsertId(); err != nil {
			return err
		}
		return sqliteWriteChildren(ctx, tx, newID, l)
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert lecture")
	}
	return newID, nil
}

func (s *SQLiteStore) UpdateLecture(ctx context.Context, l *models.Lecture) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		start := toUnix(l.StartDate)
		// При переносе начала напоминание отправляется заново.
		err := tx.QueryRowContext(ctx, `
UPDATE lectures
SET title = ?, icon = ?, start_date = ?, end_date = ?, notify_before = ?,
    notified = CASE WHEN start_date IS ? THEN ? ELSE 0 END
WHERE chat_id = ? AND id = ?
RETURNING notified
`, l.Title, l.Icon, start, toUnix(l.EndDate), l.NotifyBefore, start, l.Notified, l.ChatID, l.ID).Scan(&l.Notified)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lecture_units WHERE lecture_id = ?`, l.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE lecture_id = ?`, l.ID); err != nil {
			return err
		}
		return sqliteWriteChildren(ctx, tx, l.ID, l)
	})
	return errors.Wrap(err, "update lecture")
}

func sqliteWriteChildren(ctx context.Context, tx *sql.Tx, lectureID int64, l *models.Lecture) error {
	for _, u := range l.Units {
		if _, err := tx.ExecContext(ctx, `INSERT INTO lecture_units (lecture_id, position, name) VALUES (?, ?, ?)`,
			lectureID, u.Position, u.Name); err != nil {
			return err
		}
	}
	for _, a := range l.Attachments {
		if _, err := tx.ExecContext(ctx, `INSERT INTO attachments (lecture_id, name, link, kind) VALUES (?, ?, ?, ?)`,
			lectureID, a.Name, a.Link, a.Kind); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetLecture(ctx context.Context, chatID, id int64) (*models.Lecture, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+sqliteLectureColumns+`
FROM lectures
WHERE chat_id = ? AND id = ?
`, chatID, id)

	l, err := scanSQLiteLecture(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get lecture")
	}
	if err := s.loadChildren(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, l *models.Lecture) error {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, lecture_id, position, name
FROM lecture_units
WHERE lecture_id = ?
ORDER BY position
`, l.ID)
	if err != nil {
		return errors.Wrap(err, "load units")
	}
	l.Units = nil
	for rows.Next() {
		var u models.LectureUnit
		if err := rows.Scan(&u.ID, &u.LectureID, &u.Position, &u.Name); err != nil {
			rows.Close()
			return errors.Wrap(err, "scan unit")
		}
		l.Units = append(l.Units, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "load units")
	}

	rows, err = s.db.QueryContext(ctx, `
SELECT id, lecture_id, name, link, kind
FROM attachments
WHERE lecture_id = ?
ORDER BY id
`, l.ID)
	if err != nil {
		return errors.Wrap(err, "load attachments")
	}
	defer rows.Close()
	l.Attachments = nil
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.LectureID, &a.Name, &a.Link, &a.Kind); err != nil {
			return errors.Wrap(err, "scan attachment")
		}
		l.Attachments = append(l.Attachments, a)
	}
	return errors.Wrap(rows.Err(), "load attachments")
}

// queryLectures читает все строки до загрузки дочерних записей: соединение одно.
func (s *SQLiteStore) queryLectures(ctx context.Context, query string, args ...any) ([]models.Lecture, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Lecture
	for rows.Next() {
		l, err := scanSQLiteLecture(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) ListUpcoming(ctx context.Context, chatID int64, now time.Time) ([]models.Lecture, error) {
	lectures, err := s.queryLectures(ctx, `
SELECT `+sqliteLectureColumns+`
FROM lectures
WHERE chat_id = ?
  AND (start_date IS NULL OR start_date >= ?)
ORDER BY start_date IS NULL, start_date, id
`, chatID, startOfDay(now).Unix())
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

func (s *SQLiteStore) DeleteLecture(ctx context.Context, chatID, id int64) error {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM lectures
WHERE chat_id = ? AND id = ?
`, chatID, id)
	if err != nil {
		return errors.Wrap(err, "delete lecture")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete lecture")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) LecturesToNotify(ctx context.Context, now time.Time) ([]models.Lecture, error) {
	lectures, err := s.queryLectures(ctx, `
SELECT `+sqliteLectureColumns+`
FROM lectures
WHERE notified = 0
  AND start_date IS NOT NULL
  AND start_date > ?
  AND (start_date - ?) <= notify_before * 60
`, now.Unix(), now.Unix())
	return lectures, errors.Wrap(err, "find lectures to notify")
}

func (s *SQLiteStore) MarkNotified(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE lectures
SET notified = 1
WHERE id = ?
`, id)
	return errors.Wrap(err, "mark notified")
}

package repos

import (
	"maisonmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type NotificationRepo struct{ db *sqlx.DB }

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo { return &NotificationRepo{db: db} }

const notificationColumns = `
  id, user_id, kind, title, body, status, read_at, archived_at, created_at`

func (r *NotificationRepo) Create(n domain.Notification) error {
	_, err := r.db.Exec(`
	  INSERT INTO notifications(id, user_id, kind, title, body, status, created_at)
	  VALUES(?,?,?,?,?,'PENDING',CURRENT_TIMESTAMP)
	`, n.ID, n.UserID, n.Kind, n.Title, n.Body)
	return err
}

// ListByUser returns non-archived notifications unless includeArchived is set.
func (r *NotificationRepo) ListByUser(userID string, includeArchived bool) ([]domain.Notification, error) {
	out := []domain.Notification{}
	sql := `SELECT` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	if !includeArchived {
		sql += ` AND status != 'ARCHIVED'`
	}
	sql += ` ORDER BY datetime(created_at) DESC`
	err := r.db.Select(&out, sql, userID)
	return out, err
}

func (r *NotificationRepo) UnreadCount(userID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND status = 'PENDING'`, userID)
	return n, err
}

// MarkRead stamps read_at alongside the status flip so the two never drift.
func (r *NotificationRepo) MarkRead(id, userID string) error {
	res, err := r.db.Exec(`
	  UPDATE notifications
	  SET status = 'READ', read_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND user_id = ? AND status = 'PENDING'
	`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(userID string) error {
	_, err := r.db.Exec(`
	  UPDATE notifications
	  SET status = 'READ', read_at = CURRENT_TIMESTAMP
	  WHERE user_id = ? AND status = 'PENDING'
	`, userID)
	return err
}

func (r *NotificationRepo) Archive(id, userID string) error {
	res, err := r.db.Exec(`
	  UPDATE notifications
	  SET status = 'ARCHIVED', archived_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND user_id = ? AND status != 'ARCHIVED'
	`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/Euroteck-developer/Reminder-App/types"
	"gorm.io/gorm"
)

type StatsRepo interface {
	PerformanceRows(ctx context.Context, q types.StatsQuery) ([]types.PerformanceRow, error)
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepo {
	return &statsRepo{
		db: db,
	}
}

// One row per (task, history subject) pair.
const perAssigneeSQL = `
SELECT tr.id AS task_id, tr.description, tr.priority, tr.status AS task_status, tr.created_by,
       COALESCE(u1.name, '') AS created_by_name,
       th.user_id, u2.name AS user_name,
       (SELECT th2.status FROM task_history th2
         WHERE th2.task_id = tr.id AND th2.user_id = th.user_id
         ORDER BY th2.changed_at DESC, th2.id DESC LIMIT 1) AS latest_history_status,
       th.last_lost_date, th.last_reassign_date
FROM (
    SELECT task_id, user_id,
           MAX(CASE WHEN status = ? THEN changed_at END) AS last_lost_date,
           MAX(CASE WHEN status = ? THEN changed_at END) AS last_reassign_date
    FROM task_history
    GROUP BY task_id, user_id
) th
JOIN task_reminders tr ON tr.id = th.task_id
LEFT JOIN users u1 ON u1.id = tr.created_by
LEFT JOIN users u2 ON u2.id = th.user_id
WHERE %s
ORDER BY tr.id DESC`

// One row per task, with the latest history subject as the assignee.
const perTaskSQL = `
SELECT tr.id AS task_id, tr.description, tr.priority, tr.status AS task_status, tr.created_by,
       COALESCE(u1.name, '') AS created_by_name,
       (SELECT u2.name FROM task_history th2 JOIN users u2 ON u2.id = th2.user_id
         WHERE th2.task_id = tr.id
         ORDER BY th2.changed_at DESC, th2.id DESC LIMIT 1) AS user_name,
       (SELECT th3.status FROM task_history th3
         WHERE th3.task_id = tr.id
         ORDER BY th3.changed_at DESC, th3.id DESC LIMIT 1) AS latest_history_status,
       (SELECT MAX(th4.changed_at) FROM task_history th4
         WHERE th4.task_id = tr.id AND th4.status = ?) AS last_lost_date,
       (SELECT MAX(th5.changed_at) FROM task_history th5
         WHERE th5.task_id = tr.id AND th5.status = ?) AS last_reassign_date
FROM task_reminders tr
LEFT JOIN users u1 ON u1.id = tr.created_by
WHERE %s
ORDER BY tr.id DESC`

// statsQuery builds the SQL and arguments for a resolved statistics query.
func statsQuery(q types.StatsQuery) (string, []any, error) {
	args := []any{types.HistoryLost, types.HistoryReassigned}
	switch q.Type {
	case types.StatsPersonal:
		return fmt.Sprintf(perAssigneeSQL, "tr.created_by = ? AND th.user_id = ?"), append(args, q.UserID, q.UserID), nil
	case types.StatsAssigned:
		return fmt.Sprintf(perAssigneeSQL, "th.user_id = ?"), append(args, q.UserID), nil
	case types.StatsCreated:
		return fmt.Sprintf(perTaskSQL, "tr.created_by = ?"), append(args, q.UserID), nil
	case types.StatsAll:
		if q.UserID == 0 {
			return fmt.Sprintf(perTaskSQL, "1 = 1"), args, nil
		}
		cond := "(tr.created_by = ? OR EXISTS (SELECT 1 FROM task_history thx WHERE thx.task_id = tr.id AND thx.user_id = ?))"
		return fmt.Sprintf(perTaskSQL, cond), append(args, q.UserID, q.UserID), nil
	default:
		return "", nil, fmt.Errorf("unsupported stats type %q", q.Type)
	}
}

func (r *statsRepo) PerformanceRows(ctx context.Context, q types.StatsQuery) ([]types.PerformanceRow, error) {
	query, args, err := statsQuery(q)
	if err != nil {
		return nil, err
	}
	var rows []types.PerformanceRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

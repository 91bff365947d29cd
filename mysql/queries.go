package mysql

import "fmt"

type queries struct {
	insert         string
	update         string
	claim          string
	selectDue      string
	hasPending     string
	deleteFinished string
	countByStatus  string
}

func newQueries(table string) queries {
	cols := "id, recipient, subject, content, status, retry_count, last_error, next_retry_at, created_at, updated_at"
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		table,
		cols,
	)
	update := fmt.Sprintf(
		"UPDATE %s SET status = ?, retry_count = ?, last_error = ?, next_retry_at = ?, updated_at = ? WHERE id = ?",
		table,
	)
	claim := fmt.Sprintf(
		"UPDATE %s SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		table,
	)
	selectDue := fmt.Sprintf(
		"SELECT %s FROM %s WHERE status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?) ORDER BY created_at ASC",
		cols,
		table,
	)
	hasPending := fmt.Sprintf(
		"SELECT 1 FROM %s WHERE recipient = ? AND status = ? LIMIT 1",
		table,
	)
	deleteFinished := fmt.Sprintf(
		"DELETE FROM %s WHERE status IN (?, ?) AND created_at < ?",
		table,
	)
	countByStatus := fmt.Sprintf(
		"SELECT status, COUNT(*) FROM %s GROUP BY status",
		table,
	)

	return queries{
		insert:         insert,
		update:         update,
		claim:          claim,
		selectDue:      selectDue,
		hasPending:     hasPending,
		deleteFinished: deleteFinished,
		countByStatus:  countByStatus,
	}
}

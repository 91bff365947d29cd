package mysql

import "fmt"

const schemaTemplate = `CREATE TABLE IF NOT EXISTS %s (
	id CHAR(36) NOT NULL,
	recipient VARCHAR(320) NOT NULL,
	subject VARCHAR(998) NOT NULL,
	content TEXT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	retry_count INT NOT NULL DEFAULT 0,
	last_error VARCHAR(1024) NULL,
	next_retry_at TIMESTAMP(6) NULL,
	created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	updated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
	PRIMARY KEY (id),
	INDEX idx_email_outbox_status (status),
	INDEX idx_email_outbox_next_retry (status, next_retry_at)
);`

// Schema returns the CREATE TABLE statement for an email outbox table.
func Schema(table string) (string, error) {
	name, err := sanitizeTableName(table)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(schemaTemplate, name), nil
}

package store

import (
	"database/sql"
	"time"

	"github.com/akkafe1ix/HealthPill-bot/internal/domain"
)

const medicationColumns = "id, user_id, name, dosage, schedule, is_active, created_at"

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(r rowScanner) (*domain.Medication, error) {
	var (
		m         domain.Medication
		activeInt int
		createdAt int64
	)
	if err := r.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Schedule, &activeInt, &createdAt); err != nil {
		return nil, err
	}
	m.Active = activeInt != 0
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &m, nil
}

func collectMedications(rows *sql.Rows) ([]domain.Medication, error) {
	defer rows.Close()

	var res []domain.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

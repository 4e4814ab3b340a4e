package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/carte/internal/model"
)

// PostgresMechanicRepo はPostgreSQLを使用した整備士ディレクトリリポジトリ。
type PostgresMechanicRepo struct {
	db *sql.DB
}

// NewPostgresMechanicRepo はPostgresMechanicRepoを生成する。
func NewPostgresMechanicRepo(db *sql.DB) *PostgresMechanicRepo {
	return &PostgresMechanicRepo{db: db}
}

// List は全整備士を名前順で返す。
func (r *PostgresMechanicRepo) List(ctx context.Context) ([]*model.Mechanic, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, specialty FROM mechanics ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list mechanics: %w", err)
	}
	defer rows.Close()

	var mechanics []*model.Mechanic
	for rows.Next() {
		m := &model.Mechanic{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Location, &m.Specialty); err != nil {
			return nil, fmt.Errorf("failed to scan mechanic row: %w", err)
		}
		mechanics = append(mechanics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mechanic rows: %w", err)
	}

	return mechanics, nil
}

// compile-time interface check
var _ MechanicRepository = (*PostgresMechanicRepo)(nil)

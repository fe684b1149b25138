package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yourorg/leaflens/internal/models"
)

// ErrNotFound indica usuario o reporte inexistente.
var ErrNotFound = errors.New("not found")

// Store es el historial de diagnósticos respaldado en MySQL.
// Cada reporte pertenece a exactamente un usuario; los append son un solo
// INSERT, sin locking adicional.
type Store struct {
	db *sql.DB
}

// New crea el store de historial.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append agrega un reporte al historial de su usuario.
func (s *Store) Append(ctx context.Context, report *models.PlantReport) error {
	query := `
		INSERT INTO plant_reports (
			id, user_id, disease, confidence, treatment, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		report.ID,
		report.UserID,
		report.Disease,
		report.Confidence,
		report.Treatment,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

// List retorna los reportes del usuario, el más reciente primero.
func (s *Store) List(ctx context.Context, userID int64) ([]models.PlantReport, error) {
	query := `
		SELECT id, user_id, disease, confidence, treatment, created_at
		FROM plant_reports
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	reports := []models.PlantReport{}
	for rows.Next() {
		var r models.PlantReport
		if err := rows.Scan(&r.ID, &r.UserID, &r.Disease, &r.Confidence, &r.Treatment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Get busca un reporte por id dentro del historial del usuario. El filtro
// por user_id garantiza que nadie lea reportes ajenos.
func (s *Store) Get(ctx context.Context, userID int64, reportID string) (*models.PlantReport, error) {
	query := `
		SELECT id, user_id, disease, confidence, treatment, created_at
		FROM plant_reports
		WHERE id = ? AND user_id = ?
	`
	var r models.PlantReport
	err := s.db.QueryRowContext(ctx, query, reportID, userID).Scan(
		&r.ID, &r.UserID, &r.Disease, &r.Confidence, &r.Treatment, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching report: %w", err)
	}
	return &r, nil
}

// Summarize arma el resumen del dashboard para un usuario.
func (s *Store) Summarize(ctx context.Context, userID int64) (*models.DashboardSummary, error) {
	exists, err := s.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	reports, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := BuildSummary(reports)
	return &summary, nil
}

// UserExists verifica que el usuario esté registrado.
func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

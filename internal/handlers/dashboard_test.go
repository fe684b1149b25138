package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/leaflens/internal/history"
)

// dashboardApp arma la app con el userID ya resuelto, como lo dejaría el
// middleware de auth.
func dashboardApp(t *testing.T, userID int64) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewDashboardHandler(history.New(db))
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	app.Get("/api/dashboard/summary", h.GetDashboardSummary)
	app.Get("/api/dashboard/details/:id", h.GetDiagnosisDetails)
	return app, mock
}

func TestDashboardSummaryUnknownUser(t *testing.T) {
	app, mock := dashboardApp(t, 99)
	mock.ExpectQuery("SELECT 1 FROM users").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "User not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiagnosisDetailsForeignReport(t *testing.T) {
	app, mock := dashboardApp(t, 2)
	// reporte de otro usuario: la consulta filtrada no devuelve filas y la
	// respuesta es el mismo 404 que para un id inexistente
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ? AND user_id = ?")).
		WithArgs("rep-1", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "disease", "confidence", "treatment", "created_at"}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/details/rep-1", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "Report not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

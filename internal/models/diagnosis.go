package models

import "time"

// PlantReport is a stored diagnosis row. Disease keeps the raw classifier
// label (e.g. "Tomato___Early_blight") and Confidence the raw fraction in
// [0,1]; both are formatted only when building a ReportDTO.
type PlantReport struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"-"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	Treatment  string    `json:"treatment"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportDTO is the presentation shape of a report: label normalized to
// spaces, confidence formatted como porcentaje ("84.52%").
type ReportDTO struct {
	ID         string    `json:"id"`
	Disease    string    `json:"disease"`
	Confidence string    `json:"confidence"`
	Treatment  string    `json:"treatment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DashboardSummary aggregates a user's diagnosis history.
type DashboardSummary struct {
	TotalScans     int         `json:"totalScans"`
	Healthy        int         `json:"healthy"`
	NeedsAttention int         `json:"needsAttention"`
	Categories     []string    `json:"categories"`
	RecentActivity []ReportDTO `json:"recentActivity"`
}

// DiagnoseResponse is returned by POST /api/diagnose.
type DiagnoseResponse struct {
	Success    bool      `json:"success"`
	ID         string    `json:"id"`
	Disease    string    `json:"disease"`
	Confidence string    `json:"confidence"`
	Treatment  string    `json:"treatment"`
	CreatedAt  time.Time `json:"createdAt"`
}

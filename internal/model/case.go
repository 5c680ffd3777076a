package model

import (
	"time"
)

type Case struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ReporterID  int64     `db:"reporter_id" json:"reporter"`
	CreatedByID *int64    `db:"created_by_id" json:"created_by"`
	CaseTypeID  *int64    `db:"case_type_id" json:"case_type"`
	StatusID    *int64    `db:"status_id" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Location    *string   `db:"location" json:"location"`
}

type CaseImage struct {
	ID         int64     `db:"id" json:"id"`
	CaseID     int64     `db:"case_id" json:"case"`
	Image      string    `db:"image" json:"image"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`

	// Computed fields (not in database)
	URL string `db:"-" json:"url,omitempty"`
}

// CaseTitle is one row of the date-range title listing.
type CaseTitle struct {
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CaseDetail is a case together with its images.
type CaseDetail struct {
	Case
	Images []CaseImage `json:"images"`
}

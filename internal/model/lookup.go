package model

// Lookup is the shape shared by roles, case types and case statuses.
type Lookup struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

type (
	Role       = Lookup
	CaseType   = Lookup
	CaseStatus = Lookup
)

// DefaultCaseStatusID is assigned when a case is reported without a status.
const DefaultCaseStatusID int64 = 1

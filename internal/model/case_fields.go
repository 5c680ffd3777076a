package model

// CaseField is one reportable attribute of Case.
type CaseField struct {
	Key    string
	Column string
}

// CaseFieldsVersion changes whenever CaseFields does.
const CaseFieldsVersion = 2

// CaseFields lists every persisted Case attribute in declaration order.
// Foreign keys are exposed under the relation name and export the raw id.
// Keep in sync with the db tags on Case; TestCaseFieldsCoverCase enforces it.
var CaseFields = []CaseField{
	{Key: "id", Column: "id"},
	{Key: "title", Column: "title"},
	{Key: "description", Column: "description"},
	{Key: "reporter", Column: "reporter_id"},
	{Key: "created_by", Column: "created_by_id"},
	{Key: "case_type", Column: "case_type_id"},
	{Key: "status", Column: "status_id"},
	{Key: "created_at", Column: "created_at"},
	{Key: "location", Column: "location"},
}

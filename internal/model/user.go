package model

import (
	"time"
)

type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"fname" json:"fname"`
	LastName     string     `db:"lname" json:"lname"`
	RoleID       *int64     `db:"role_id" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	IsStaff      bool       `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool       `db:"is_superuser" json:"is_superuser"`
	LastLogin    *time.Time `db:"last_login" json:"last_login"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// CanAdminister reports whether the user may reach staff-only endpoints.
func (u *User) CanAdminister() bool {
	return u.IsActive && (u.IsStaff || u.IsSuperuser)
}

package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleBookkeeper     Role = "bookkeeper"
	RolePayrollChecker Role = "payrollChecker"
	RoleApprover       Role = "approver"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleBookkeeper, RolePayrollChecker, RoleApprover:
		return true
	}
	return false
}

var ErrNotFound = errors.New("user not found")

type User struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID    string         `gorm:"size:32;uniqueIndex:ux_users_user_id_active" json:"user_id"`
	Email     string         `gorm:"size:255;index:idx_users_email" json:"email"`
	Name      string         `gorm:"size:255" json:"name"`
	Role      Role           `gorm:"type:enum('admin','bookkeeper','payrollChecker','approver')" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

package entity

import (
	"SafetyAgents/internal/lib/validate"
	"net/http"
)

type UserAuth struct {
	UserID    string `json:"user_id" bson:"user_id" validate:"required"`
	Username  string `json:"username" bson:"username" validate:"required"`
	CompanyID string `json:"company_id" bson:"company_id" validate:"omitempty"`
	Name      string `json:"name" bson:"name" validate:"omitempty"`
	Email     string `json:"email" bson:"email" validate:"omitempty"`
	Role      string `json:"role" bson:"role" validate:"omitempty"`
	Token     string `json:"token" bson:"token" validate:"required,min=1"`
}

const (
	UserRole  = "user"
	AdminRole = "admin"
)

func (u *UserAuth) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

func (u *UserAuth) IsAdmin() bool {
	return u.Role == AdminRole
}

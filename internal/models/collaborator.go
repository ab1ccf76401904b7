package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "usuario"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Collaborator struct {
	ID        uuid.UUID           `db:"id"`
	Name      string              `db:"nome"`
	Email     string              `db:"email"`
	Password  string              `db:"senha"`
	Position  string              `db:"cargo"`
	Salary    decimal.NullDecimal `db:"salario"`
	Role      Role                `db:"tipo"`
	CreatedAt time.Time           `db:"created_at"`
	UpdatedAt time.Time           `db:"updated_at"`
}

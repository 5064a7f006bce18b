package db_models

import (
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleFree    Role = "free"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFree, RolePremium, RoleAdmin:
		return true
	}
	return false
}

// Metered returns whether deductions actually charge the balance.
// Premium accounts are logged but never charged.
func (r Role) Metered() bool {
	return r != RolePremium
}

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         Role `gorm:"type:varchar(16);not null;default:'free';index"`

	// CreditBalance never goes below zero; mutated only through the
	// ledger repository (deduct, credit, upgrade).
	CreditBalance decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	// Version is the optimistic-lock counter for balance updates.
	Version int64 `gorm:"not null;default:0"`
}

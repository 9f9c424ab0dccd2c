package entity

import "time"

// Statuts de cycle de vie d'une Company. Une entreprise naît Pending à
// l'inscription et passe à Approved ou Rejected par action d'un SuperAdmin.
const (
	CompanyStatusPending  = "Pending"
	CompanyStatusApproved = "Approved"
	CompanyStatusRejected = "Rejected"
)

// Company représente une organisation/tenant du système. Elle possède ses
// utilisateurs, ses textes réglementaires et ses plans d'action ; la
// suppression administrative est en cascade (gérée par la persistance).
type Company struct {
	ID              string
	Name            string
	Industry        string
	Status          string // Pending, Approved, Rejected
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsApproved indique si l'entreprise a été validée par un SuperAdmin.
func (c *Company) IsApproved() bool {
	return c.Status == CompanyStatusApproved
}

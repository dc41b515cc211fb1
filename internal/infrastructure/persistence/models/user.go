package models

import "github.com/lababil/pos/internal/domain/identity"

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Name         string        `gorm:"type:varchar(200)"`
	Email        string        `gorm:"type:varchar(200)"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	IsActive     bool          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		Email:             m.Email,
		Role:              m.Role,
		IsActive:          m.IsActive,
	}
}

// UserModelFromDomain creates a model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		IsActive:     u.IsActive,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}

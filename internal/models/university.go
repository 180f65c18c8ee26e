package models

import (
	"time"

	"github.com/uptrace/bun"
)

type University struct {
	bun.BaseModel `bun:"table:universities,alias:u" json:"-" bson:"-"`

	ID           string    `bun:"id,pk" bson:"_id" json:"id"`
	Name         string    `bun:"name,notnull,unique" bson:"name" json:"name"`
	Location     string    `bun:"location" bson:"location" json:"location"`
	ContactEmail string    `bun:"contact_email" bson:"contact_email" json:"contactEmail,omitempty"`
	IsActive     bool      `bun:"is_active,notnull" bson:"is_active" json:"isActive"`
	CreatedAt    time.Time `bun:"created_at,notnull" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" bson:"updated_at" json:"updatedAt"`
}

func (University) CollectionName() string {
	return "universities"
}

func (u University) GetID() string {
	return u.ID
}

// UniversitySummary is the university projection embedded in products.
type UniversitySummary struct {
	bun.BaseModel `bun:"table:universities,alias:university" json:"-" bson:"-"`

	ID       string `bun:"id,pk" bson:"_id" json:"id"`
	Name     string `bun:"name" bson:"name" json:"name"`
	Location string `bun:"location" bson:"location" json:"location,omitempty"`
}

type CreateUniversityRequest struct {
	Name         string `json:"name" validate:"required,notblank,min=2,max=200"`
	Location     string `json:"location" validate:"max=200"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email,max=100"`
}

type UpdateUniversityRequest struct {
	ID           string  `param:"id" json:"-" validate:"required,uuid"`
	Name         *string `json:"name" validate:"omitempty,notblank,min=2,max=200"`
	Location     *string `json:"location" validate:"omitempty,max=200"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,email,max=100"`
	IsActive     *bool   `json:"isActive"`
}

func (r UpdateUniversityRequest) Apply(u *University) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Location != nil {
		u.Location = *r.Location
	}
	if r.ContactEmail != nil {
		u.ContactEmail = *r.ContactEmail
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
}

type UniversityIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (u University) Summary() *UniversitySummary {
	return &UniversitySummary{ID: u.ID, Name: u.Name, Location: u.Location}
}

package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p" json:"-" bson:"-"`

	ID           string    `bun:"id,pk" bson:"_id" json:"id"`
	Name         string    `bun:"name,notnull" bson:"name" json:"name"`
	Description  string    `bun:"description" bson:"description" json:"description"`
	Category     string    `bun:"category,notnull" bson:"category" json:"category"`
	Price        float64   `bun:"price,notnull" bson:"price" json:"price"`
	Stock        int       `bun:"stock,notnull" bson:"stock" json:"stock"`
	ImageURL     string    `bun:"image_url" bson:"image_url" json:"imageUrl,omitempty"`
	IsActive     bool      `bun:"is_active,notnull" bson:"is_active" json:"isActive"`
	UniversityID string    `bun:"university_id,notnull" bson:"university_id" json:"universityId"`
	CreatedAt    time.Time `bun:"created_at,notnull" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" bson:"updated_at" json:"updatedAt"`
	DeletedAt    time.Time `bun:"deleted_at,soft_delete,nullzero" bson:"deleted_at,omitempty" json:"-"`

	University *UniversitySummary `bun:"rel:belongs-to,join:university_id=id" bson:"-" json:"university,omitempty"`
}

func (Product) CollectionName() string {
	return "products"
}

func (p Product) GetID() string {
	return p.ID
}

// ProductSummary is the product projection embedded in orders.
type ProductSummary struct {
	bun.BaseModel `bun:"table:products,alias:product" json:"-" bson:"-"`

	ID    string  `bun:"id,pk" bson:"_id" json:"id"`
	Name  string  `bun:"name" bson:"name" json:"name"`
	Price float64 `bun:"price" bson:"price" json:"price"`
}

type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required,notblank,min=2,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	Category     string   `json:"category" validate:"required,notblank,max=100"`
	Price        *float64 `json:"price" validate:"required,min=0"`
	Stock        *int     `json:"stock" validate:"omitempty,min=0"`
	ImageURL     string   `json:"imageUrl" validate:"omitempty,url"`
	UniversityID string   `json:"universityId" validate:"required,uuid"`
}

type UpdateProductRequest struct {
	ID           string   `param:"id" json:"-" validate:"required,uuid"`
	Name         *string  `json:"name" validate:"omitempty,notblank,min=2,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	Category     *string  `json:"category" validate:"omitempty,notblank,max=100"`
	Price        *float64 `json:"price" validate:"omitempty,min=0"`
	Stock        *int     `json:"stock" validate:"omitempty,min=0"`
	ImageURL     *string  `json:"imageUrl" validate:"omitempty,url"`
	IsActive     *bool    `json:"isActive"`
	UniversityID *string  `json:"universityId" validate:"omitempty,uuid"`
}

// Apply copies the fields present in the request onto p.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	if r.UniversityID != nil {
		p.UniversityID = *r.UniversityID
	}
}

type ProductIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (p Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price}
}

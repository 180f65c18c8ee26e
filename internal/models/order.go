package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o" json:"-" bson:"-"`

	ID           string      `bun:"id,pk" bson:"_id" json:"id"`
	ProductID    string      `bun:"product_id,notnull" bson:"product_id" json:"productId"`
	UniversityID string      `bun:"university_id,notnull" bson:"university_id" json:"universityId"`
	Quantity     int         `bun:"quantity,notnull" bson:"quantity" json:"quantity"`
	Amount       float64     `bun:"amount,notnull" bson:"amount" json:"amount"`
	Status       OrderStatus `bun:"status,notnull" bson:"status" json:"status"`
	OrderDate    time.Time   `bun:"order_date,notnull" bson:"order_date" json:"orderDate"`
	CreatedAt    time.Time   `bun:"created_at,notnull" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `bun:"updated_at,notnull" bson:"updated_at" json:"updatedAt"`

	Product *ProductSummary `bun:"rel:belongs-to,join:product_id=id" bson:"-" json:"product,omitempty"`
}

func (Order) CollectionName() string {
	return "orders"
}

func (o Order) GetID() string {
	return o.ID
}

// UniversitySales is one row of the sales ranking.
type UniversitySales struct {
	UniversityID string  `bun:"university_id" bson:"_id" json:"universityId"`
	Name         string  `bun:"name" bson:"name" json:"name"`
	Location     string  `bun:"location" bson:"location" json:"location"`
	TotalSales   float64 `bun:"total_sales" bson:"total_sales" json:"totalSales"`
	OrderCount   int64   `bun:"order_count" bson:"order_count" json:"orderCount"`
}

type CreateOrderRequest struct {
	ProductID string      `json:"productId" validate:"required,uuid"`
	Quantity  int         `json:"quantity" validate:"required,min=1,max=10000"`
	Status    OrderStatus `json:"status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
}

type TopUniversitiesRequest struct {
	Top int `query:"top" validate:"omitempty,min=1,max=100"`
}

type OrdersByUniversityRequest struct {
	UniversityID string `param:"universityId" validate:"required,uuid"`
}

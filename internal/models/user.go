package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:usr" json:"-" bson:"-"`

	ID           string    `bun:"id,pk" bson:"_id" json:"id"`
	Username     string    `bun:"username,notnull,unique" bson:"username" json:"username"`
	Email        string    `bun:"email,notnull,unique" bson:"email" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" bson:"password_hash" json:"-"`
	Role         Role      `bun:"role,notnull" bson:"role" json:"role"`
	IsActive     bool      `bun:"is_active,notnull" bson:"is_active" json:"isActive"`
	CreatedAt    time.Time `bun:"created_at,notnull" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" bson:"updated_at" json:"updatedAt"`
}

func (User) CollectionName() string {
	return "users"
}

func (u User) GetID() string {
	return u.ID
}

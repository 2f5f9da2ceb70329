package model

import (
	"time"
)

// Usuario is the shared admin login. Rol is always "administrador".
type Usuario struct {
	ID           int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string  `gorm:"column:username;uniqueIndex;not null"`
	Nombre       string  `gorm:"column:name;not null"`
	Email        *string `gorm:"column:email"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	Rol          string  `gorm:"column:role;type:varchar(20);not null"`
	Activo       bool    `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "users" }

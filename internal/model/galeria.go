package model

import "time"

// PublicacionGaleria is a social-media post shown in the storefront gallery.
// Plataforma: "instagram" | "facebook"
type PublicacionGaleria struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Titulo       string    `gorm:"column:title;not null"`
	ImagenURL    string    `gorm:"column:image_url;not null"`
	Descripcion  *string   `gorm:"column:description"`
	InstagramURL *string   `gorm:"column:instagram_url"`
	Plataforma   string    `gorm:"column:platform;type:varchar(20);not null;default:'instagram'"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (PublicacionGaleria) TableName() string { return "gallery_posts" }

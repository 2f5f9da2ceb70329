package model

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// PasoTimeline is one step of a service's work timeline.
type PasoTimeline struct {
	Imagen      string `json:"image"`
	Titulo      string `json:"title"`
	Descripcion string `json:"description"`
}

// Servicio is an installation/repair service shown in the storefront.
// ImagenesTimeline is the legacy format, superseded by Timeline.
type Servicio struct {
	ID                  int64                             `gorm:"column:id;primaryKey;autoIncrement"`
	Categoria           string                            `gorm:"column:category"`
	Titulo              string                            `gorm:"column:title;not null"`
	Descripcion         string                            `gorm:"column:description"`
	DescripcionCompleta string                            `gorm:"column:fullDescription"`
	Imagen              string                            `gorm:"column:image"`
	VideoURL            *string                           `gorm:"column:video_url"`
	Timeline            datatypes.JSONSlice[PasoTimeline] `gorm:"column:timeline;type:jsonb"`
	ImagenesTimeline    pq.StringArray                    `gorm:"column:timeline_images;type:text[]"`
	Orden               int                               `gorm:"column:order;not null;default:0"`
}

func (Servicio) TableName() string { return "services" }

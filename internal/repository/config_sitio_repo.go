package repository

import (
	"context"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigSitioRepository interface {
	List(ctx context.Context) ([]model.ConfigSitio, error)
	Get(ctx context.Context, clave string) (*model.ConfigSitio, error)
	Upsert(ctx context.Context, c *model.ConfigSitio) error
}

type configSitioRepo struct{ db *gorm.DB }

func NewConfigSitioRepository(db *gorm.DB) ConfigSitioRepository { return &configSitioRepo{db: db} }

func (r *configSitioRepo) List(ctx context.Context) ([]model.ConfigSitio, error) {
	var rows []model.ConfigSitio
	err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error
	return rows, err
}

func (r *configSitioRepo) Get(ctx context.Context, clave string) (*model.ConfigSitio, error) {
	var c model.ConfigSitio
	err := r.db.WithContext(ctx).Where("key = ?", clave).First(&c).Error
	return &c, err
}

func (r *configSitioRepo) Upsert(ctx context.Context, c *model.ConfigSitio) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(c).Error
}

package repository

import (
	"context"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"gorm.io/gorm"
)

type GaleriaRepository interface {
	Create(ctx context.Context, p *model.PublicacionGaleria) error
	FindByID(ctx context.Context, id int64) (*model.PublicacionGaleria, error)
	List(ctx context.Context) ([]model.PublicacionGaleria, error)
	Update(ctx context.Context, p *model.PublicacionGaleria) error
	Delete(ctx context.Context, id int64) error
}

type galeriaRepo struct{ db *gorm.DB }

func NewGaleriaRepository(db *gorm.DB) GaleriaRepository { return &galeriaRepo{db: db} }

func (r *galeriaRepo) Create(ctx context.Context, p *model.PublicacionGaleria) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *galeriaRepo) FindByID(ctx context.Context, id int64) (*model.PublicacionGaleria, error) {
	var p model.PublicacionGaleria
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *galeriaRepo) List(ctx context.Context) ([]model.PublicacionGaleria, error) {
	var posts []model.PublicacionGaleria
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&posts).Error
	return posts, err
}

func (r *galeriaRepo) Update(ctx context.Context, p *model.PublicacionGaleria) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *galeriaRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.PublicacionGaleria{}, id).Error
}

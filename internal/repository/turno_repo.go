package repository

import (
	"context"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"gorm.io/gorm"
)

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id int64) (*model.Turno, error)
	List(ctx context.Context, filter dto.TurnoFilter) ([]model.Turno, int64, error)
	UpdateEstado(ctx context.Context, id int64, estado string) error
	Delete(ctx context.Context, id int64) error
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id int64) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) List(ctx context.Context, filter dto.TurnoFilter) ([]model.Turno, int64, error) {
	var turnos []model.Turno
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Turno{})
	if filter.Estado != "" {
		q = q.Where("status = ?", filter.Estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("appointment_date DESC, id DESC").Offset(offset).Limit(filter.Limit).Find(&turnos).Error
	return turnos, total, err
}

func (r *turnoRepo) UpdateEstado(ctx context.Context, id int64, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.Turno{}).Where("id = ?", id).Update("status", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *turnoRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Turno{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"context"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServicioRepository interface {
	Create(ctx context.Context, s *model.Servicio) error
	FindByID(ctx context.Context, id int64) (*model.Servicio, error)
	// List returns services in display order.
	List(ctx context.Context) ([]model.Servicio, error)
	Update(ctx context.Context, s *model.Servicio) error
	Delete(ctx context.Context, id int64) error
	MaxOrden(ctx context.Context) (int, error)
	UpdateOrdenTx(tx *gorm.DB, id int64, orden int) error
	DB() *gorm.DB
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) DB() *gorm.DB { return r.db }

// "order" is a reserved word, so ordering goes through clause.OrderBy
// which quotes the column name.
var ordenServicios = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "order"}},
	{Column: clause.Column{Name: "id"}},
}}

func (r *servicioRepo) Create(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *servicioRepo) FindByID(ctx context.Context, id int64) (*model.Servicio, error) {
	var s model.Servicio
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *servicioRepo) List(ctx context.Context) ([]model.Servicio, error) {
	var servicios []model.Servicio
	err := r.db.WithContext(ctx).Clauses(ordenServicios).Find(&servicios).Error
	return servicios, err
}

func (r *servicioRepo) Update(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *servicioRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Servicio{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *servicioRepo) MaxOrden(ctx context.Context) (int, error) {
	var ultimo int
	err := r.db.WithContext(ctx).Model(&model.Servicio{}).
		Select(`COALESCE(MAX("order"), 0)`).Scan(&ultimo).Error
	return ultimo, err
}

func (r *servicioRepo) UpdateOrdenTx(tx *gorm.DB, id int64, orden int) error {
	return tx.Model(&model.Servicio{}).Where("id = ?", id).Update("order", orden).Error
}

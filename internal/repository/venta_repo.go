package repository

import (
	"context"

	"github.com/nicoxroll/tecno-car-sub000/internal/dto"
	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"gorm.io/gorm"
)

type VentaRepository interface {
	// Create inserts the sale and its Items.
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	// Replace overwrites the sale header and swaps every item for v.Items.
	Replace(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id int64) (*model.Venta, error)
	UpdateEstado(ctx context.Context, id int64, estado string) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ListAll(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) Replace(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	tx = tx.WithContext(ctx)
	items := v.Items
	res := tx.Omit("Items").Save(v)
	if res.Error != nil {
		return res.Error
	}
	if err := tx.Where("sale_id = ?", v.ID).Delete(&model.VentaItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].VentaID = v.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	v.Items = items
	return nil
}

func (r *ventaRepo) FindByID(ctx context.Context, id int64) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) UpdateEstado(ctx context.Context, id int64, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.Venta{}).Where("id = ?", id).Update("status", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ventaRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	tx = tx.WithContext(ctx)
	if err := tx.Where("sale_id = ?", id).Delete(&model.VentaItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&model.Venta{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ventaRepo) filtered(ctx context.Context, filter dto.VentaFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("status = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where(`"date" >= ?`, filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where(`"date" <= ?`, filter.Hasta)
	}
	return q
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.filtered(ctx, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order(`"date" DESC, id DESC`).
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) ListAll(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.filtered(ctx, filter).Order(`"date" DESC, id DESC`).Find(&ventas).Error
	return ventas, err
}

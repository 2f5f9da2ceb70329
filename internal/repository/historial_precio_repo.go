package repository

import (
	"context"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"gorm.io/gorm"
)

type HistorialPrecioRepository interface {
	CreateBatchTx(tx *gorm.DB, rows []model.HistorialPrecio) error
	ListByProducto(ctx context.Context, productoID int64, page, limit int) ([]model.HistorialPrecio, int64, error)
}

type historialPrecioRepository struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepository{db: db}
}

func (r *historialPrecioRepository) CreateBatchTx(tx *gorm.DB, rows []model.HistorialPrecio) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 200).Error
}

// ListByProducto returns paginated price-change records for one product,
// ordered newest-first (append-only table, so this reflects natural insert order).
func (r *historialPrecioRepository) ListByProducto(
	ctx context.Context,
	productoID int64,
	page, limit int,
) ([]model.HistorialPrecio, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistorialPrecio{}).
		Where("product_id = ?", productoID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.HistorialPrecio
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productoID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

package infra

import (
	"fmt"

	"github.com/nicoxroll/tecno-car-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx.
// Schema changes only happen through RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations creates or updates every table, then applies the DDL that
// AutoMigrate cannot express. Safe to re-run.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.HistorialPrecio{},
		&model.Usuario{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Servicio{},
		&model.Turno{},
		&model.PublicacionGaleria{},
		&model.ConfigSitio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own (check constraints, expression indexes).
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock') THEN
		    ALTER TABLE products ADD CONSTRAINT chk_products_stock CHECK (stock >= 0);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sale_items_quantity') THEN
		    ALTER TABLE sale_items ADD CONSTRAINT chk_sale_items_quantity CHECK (quantity >= 1 AND unit_price >= 0);
		  END IF;
		END $$`,
		// sale items are owned by their sale
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_sales_items') THEN
		    ALTER TABLE sale_items ADD CONSTRAINT fk_sales_items
		      FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE;
		  END IF;
		END $$`,
		`CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products (LOWER(name))`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

package model

// ConfigSitio is one entry of the flat key-value settings table.
type ConfigSitio struct {
	Clave string `gorm:"column:key;primaryKey"`
	Valor string `gorm:"column:value;type:text"`
}

func (ConfigSitio) TableName() string { return "site_config" }

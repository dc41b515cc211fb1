package models

// ReceiptCounterModel holds the last receipt sequence issued for one day
type ReceiptCounterModel struct {
	CounterKey string `gorm:"type:varchar(40);primaryKey"`
	Value      int64  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptCounterModel) TableName() string {
	return "receipt_counters"
}

// All returns every model managed by the POS schema, for AutoMigrate
func All() []any {
	return []any{
		&ProductModel{},
		&UserModel{},
		&SaleLineModel{},
		&SettingsModel{},
		&ReceiptCounterModel{},
	}
}

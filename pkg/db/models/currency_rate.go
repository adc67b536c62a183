package models

import "github.com/shopspring/decimal"

// CurrencyRate converts amounts from one currency to another. Rates are
// maintained by the currency import side; the index engine only reads them.
type CurrencyRate struct {
	ID           uint32          `gorm:"column:id;primaryKey;autoIncrement"`
	FromCurrency string          `gorm:"column:from_currency;not null;size:3;index:idx_currency_rates_pair,unique"`
	ToCurrency   string          `gorm:"column:to_currency;not null;size:3;index:idx_currency_rates_pair,unique"`
	Rate         decimal.Decimal `gorm:"column:rate;type:numeric(24,12);not null"`
}

func (CurrencyRate) TableName() string {
	return "currency_rates"
}

package models

// CustomerGroup partitions shoppers for pricing purposes.
type CustomerGroup struct {
	ID   uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	Code string `gorm:"column:code;not null;uniqueIndex"`
}

func (CustomerGroup) TableName() string {
	return "customer_groups"
}

package models

import "github.com/storekit/priceindex/pkg/enums"

// ProductLink connects a composite parent (configurable, grouped) to a child
// product.
type ProductLink struct {
	ID       uint32                `gorm:"column:id;primaryKey;autoIncrement"`
	ParentID uint32                `gorm:"column:parent_id;not null;index:idx_product_links_parent_child,unique"`
	ChildID  uint32                `gorm:"column:child_id;not null;index:idx_product_links_parent_child,unique"`
	Type     enums.ProductLinkType `gorm:"column:type;not null;index:idx_product_links_parent_child,unique"`
}

func (ProductLink) TableName() string {
	return "product_links"
}

package catalog

import (
	"context"

	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/enums"
	"gorm.io/gorm"
)

// Repository is the read side of the catalog source tables. The index engine
// never writes through it; all mutation belongs to catalog editing.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for callers that need to compose queries
// inside a transaction.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// CustomerGroups returns every customer group ordered by id.
func (r *Repository) CustomerGroups(ctx context.Context) ([]models.CustomerGroup, error) {
	var groups []models.CustomerGroup
	err := r.db.WithContext(ctx).Order("id ASC").Find(&groups).Error
	return groups, err
}

// EntityIDs returns the ids of every active product, ordered ascending so
// batch walks are deterministic.
func (r *Repository) EntityIDs(ctx context.Context) ([]uint32, error) {
	var ids []uint32
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Order("entity_id ASC").
		Pluck("entity_id", &ids).Error
	return ids, err
}

// ProductsByType returns the active products among ids that have the given
// type, ordered by entity id.
func (r *Repository) ProductsByType(ctx context.Context, typeID enums.ProductType, ids []uint32) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("type_id = ? AND is_active = ? AND entity_id IN ?", typeID, true, ids).
		Order("entity_id ASC").
		Find(&products).Error
	return products, err
}

// Products returns the active products among ids regardless of type.
func (r *Repository) Products(ctx context.Context, ids []uint32) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND entity_id IN ?", true, ids).
		Order("entity_id ASC").
		Find(&products).Error
	return products, err
}

// PriceRows returns the store-scoped price attributes of the given entities
// keyed by entity then store. Store id 0 carries the global fallback row.
func (r *Repository) PriceRows(ctx context.Context, ids []uint32) (map[uint32]map[uint32]models.ProductPrice, error) {
	if len(ids) == 0 {
		return map[uint32]map[uint32]models.ProductPrice{}, nil
	}
	var rows []models.ProductPrice
	if err := r.db.WithContext(ctx).
		Where("entity_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byEntity := make(map[uint32]map[uint32]models.ProductPrice, len(ids))
	for _, row := range rows {
		stores, ok := byEntity[row.EntityID]
		if !ok {
			stores = make(map[uint32]models.ProductPrice)
			byEntity[row.EntityID] = stores
		}
		stores[row.StoreID] = row
	}
	return byEntity, nil
}

// TierPriceRules returns every tier price rule of the given entities grouped
// by entity id.
func (r *Repository) TierPriceRules(ctx context.Context, ids []uint32) (map[uint32][]models.TierPrice, error) {
	if len(ids) == 0 {
		return map[uint32][]models.TierPrice{}, nil
	}
	var rows []models.TierPrice
	if err := r.db.WithContext(ctx).
		Where("entity_id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byEntity := make(map[uint32][]models.TierPrice)
	for _, row := range rows {
		byEntity[row.EntityID] = append(byEntity[row.EntityID], row)
	}
	return byEntity, nil
}

// BundleOptions returns the option slots of the given bundle parents grouped
// by parent entity id, ordered by position.
func (r *Repository) BundleOptions(ctx context.Context, parentIDs []uint32) (map[uint32][]models.BundleOption, error) {
	if len(parentIDs) == 0 {
		return map[uint32][]models.BundleOption{}, nil
	}
	var rows []models.BundleOption
	if err := r.db.WithContext(ctx).
		Where("entity_id IN ?", parentIDs).
		Order("position ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byParent := make(map[uint32][]models.BundleOption)
	for _, row := range rows {
		byParent[row.EntityID] = append(byParent[row.EntityID], row)
	}
	return byParent, nil
}

// BundleSelections returns the selections of the given bundle parents grouped
// by option id.
func (r *Repository) BundleSelections(ctx context.Context, parentIDs []uint32) (map[uint32][]models.BundleSelection, error) {
	if len(parentIDs) == 0 {
		return map[uint32][]models.BundleSelection{}, nil
	}
	var rows []models.BundleSelection
	if err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byOption := make(map[uint32][]models.BundleSelection)
	for _, row := range rows {
		byOption[row.OptionID] = append(byOption[row.OptionID], row)
	}
	return byOption, nil
}

// LinkedChildren returns the child ids of the given parents for one link
// type, grouped by parent id.
func (r *Repository) LinkedChildren(ctx context.Context, linkType enums.ProductLinkType, parentIDs []uint32) (map[uint32][]uint32, error) {
	if len(parentIDs) == 0 {
		return map[uint32][]uint32{}, nil
	}
	var rows []models.ProductLink
	if err := r.db.WithContext(ctx).
		Where("type = ? AND parent_id IN ?", linkType, parentIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byParent := make(map[uint32][]uint32)
	for _, row := range rows {
		byParent[row.ParentID] = append(byParent[row.ParentID], row.ChildID)
	}
	return byParent, nil
}

// CompositeChildren returns every child id reachable from the given ids
// through product links or bundle selections. Used to expand a partial
// reindex so parents are aggregated from fresh child rows.
func (r *Repository) CompositeChildren(ctx context.Context, ids []uint32) ([]uint32, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[uint32]struct{})

	var linked []uint32
	if err := r.db.WithContext(ctx).
		Model(&models.ProductLink{}).
		Where("parent_id IN ?", ids).
		Distinct().
		Pluck("child_id", &linked).Error; err != nil {
		return nil, err
	}
	for _, id := range linked {
		seen[id] = struct{}{}
	}

	var selected []uint32
	if err := r.db.WithContext(ctx).
		Model(&models.BundleSelection{}).
		Where("parent_id IN ?", ids).
		Distinct().
		Pluck("child_id", &selected).Error; err != nil {
		return nil, err
	}
	for _, id := range selected {
		seen[id] = struct{}{}
	}

	children := make([]uint32, 0, len(seen))
	for id := range seen {
		children = append(children, id)
	}
	return children, nil
}

// CompositeParents returns every parent id that references one of the given
// ids as a child. Used to expand a partial reindex upward so stale parent
// aggregates are recomputed.
func (r *Repository) CompositeParents(ctx context.Context, ids []uint32) ([]uint32, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	seen := make(map[uint32]struct{})

	var linked []uint32
	if err := r.db.WithContext(ctx).
		Model(&models.ProductLink{}).
		Where("child_id IN ?", ids).
		Distinct().
		Pluck("parent_id", &linked).Error; err != nil {
		return nil, err
	}
	for _, id := range linked {
		seen[id] = struct{}{}
	}

	var selecting []uint32
	if err := r.db.WithContext(ctx).
		Model(&models.BundleSelection{}).
		Where("child_id IN ?", ids).
		Distinct().
		Pluck("parent_id", &selecting).Error; err != nil {
		return nil, err
	}
	for _, id := range selecting {
		seen[id] = struct{}{}
	}

	parents := make([]uint32, 0, len(seen))
	for id := range seen {
		parents = append(parents, id)
	}
	return parents, nil
}

// DownloadableLinks returns the links of the given entities grouped by
// entity id.
func (r *Repository) DownloadableLinks(ctx context.Context, ids []uint32) (map[uint32][]models.DownloadableLink, error) {
	if len(ids) == 0 {
		return map[uint32][]models.DownloadableLink{}, nil
	}
	var rows []models.DownloadableLink
	if err := r.db.WithContext(ctx).
		Where("entity_id IN ?", ids).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byEntity := make(map[uint32][]models.DownloadableLink)
	for _, row := range rows {
		byEntity[row.EntityID] = append(byEntity[row.EntityID], row)
	}
	return byEntity, nil
}

// DownloadableLinkPrices returns the per-store price overrides of the given
// links keyed by link id then store id.
func (r *Repository) DownloadableLinkPrices(ctx context.Context, linkIDs []uint32) (map[uint32]map[uint32]models.DownloadableLinkPrice, error) {
	if len(linkIDs) == 0 {
		return map[uint32]map[uint32]models.DownloadableLinkPrice{}, nil
	}
	var rows []models.DownloadableLinkPrice
	if err := r.db.WithContext(ctx).
		Where("link_id IN ?", linkIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byLink := make(map[uint32]map[uint32]models.DownloadableLinkPrice)
	for _, row := range rows {
		stores, ok := byLink[row.LinkID]
		if !ok {
			stores = make(map[uint32]models.DownloadableLinkPrice)
			byLink[row.LinkID] = stores
		}
		stores[row.StoreID] = row
	}
	return byLink, nil
}

// Options returns the custom options of the given entities grouped by
// entity id.
func (r *Repository) Options(ctx context.Context, ids []uint32) (map[uint32][]models.ProductOption, error) {
	if len(ids) == 0 {
		return map[uint32][]models.ProductOption{}, nil
	}
	var rows []models.ProductOption
	if err := r.db.WithContext(ctx).
		Where("entity_id IN ?", ids).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byEntity := make(map[uint32][]models.ProductOption)
	for _, row := range rows {
		byEntity[row.EntityID] = append(byEntity[row.EntityID], row)
	}
	return byEntity, nil
}

// OptionPrices returns the store-scoped prices of flat custom options keyed
// by option id then store id.
func (r *Repository) OptionPrices(ctx context.Context, optionIDs []uint32) (map[uint32]map[uint32]models.ProductOptionPrice, error) {
	if len(optionIDs) == 0 {
		return map[uint32]map[uint32]models.ProductOptionPrice{}, nil
	}
	var rows []models.ProductOptionPrice
	if err := r.db.WithContext(ctx).
		Where("option_id IN ?", optionIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byOption := make(map[uint32]map[uint32]models.ProductOptionPrice)
	for _, row := range rows {
		stores, ok := byOption[row.OptionID]
		if !ok {
			stores = make(map[uint32]models.ProductOptionPrice)
			byOption[row.OptionID] = stores
		}
		stores[row.StoreID] = row
	}
	return byOption, nil
}

// OptionValues returns the enumerated values of choice-style options grouped
// by option id.
func (r *Repository) OptionValues(ctx context.Context, optionIDs []uint32) (map[uint32][]models.ProductOptionValue, error) {
	if len(optionIDs) == 0 {
		return map[uint32][]models.ProductOptionValue{}, nil
	}
	var rows []models.ProductOptionValue
	if err := r.db.WithContext(ctx).
		Where("option_id IN ?", optionIDs).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byOption := make(map[uint32][]models.ProductOptionValue)
	for _, row := range rows {
		byOption[row.OptionID] = append(byOption[row.OptionID], row)
	}
	return byOption, nil
}

// OptionValuePrices returns the store-scoped prices of option values keyed by
// value id then store id.
func (r *Repository) OptionValuePrices(ctx context.Context, valueIDs []uint32) (map[uint32]map[uint32]models.ProductOptionValuePrice, error) {
	if len(valueIDs) == 0 {
		return map[uint32]map[uint32]models.ProductOptionValuePrice{}, nil
	}
	var rows []models.ProductOptionValuePrice
	if err := r.db.WithContext(ctx).
		Where("value_id IN ?", valueIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byValue := make(map[uint32]map[uint32]models.ProductOptionValuePrice)
	for _, row := range rows {
		stores, ok := byValue[row.ValueID]
		if !ok {
			stores = make(map[uint32]models.ProductOptionValuePrice)
			byValue[row.ValueID] = stores
		}
		stores[row.StoreID] = row
	}
	return byValue, nil
}

// StockStatuses returns the per-website stock rows of the given entities
// keyed by product id then website id.
func (r *Repository) StockStatuses(ctx context.Context, ids []uint32) (map[uint32]map[uint32]models.StockStatus, error) {
	if len(ids) == 0 {
		return map[uint32]map[uint32]models.StockStatus{}, nil
	}
	var rows []models.StockStatus
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uint32]map[uint32]models.StockStatus)
	for _, row := range rows {
		websites, ok := byProduct[row.ProductID]
		if !ok {
			websites = make(map[uint32]models.StockStatus)
			byProduct[row.ProductID] = websites
		}
		websites[row.WebsiteID] = row
	}
	return byProduct, nil
}

package priceindex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/storekit/priceindex/internal/catalog"
	"github.com/storekit/priceindex/internal/dimension"
	"github.com/storekit/priceindex/internal/rates"
	"github.com/storekit/priceindex/internal/scope"
	"github.com/storekit/priceindex/internal/tierprice"
	"github.com/storekit/priceindex/pkg/db"
	"github.com/storekit/priceindex/pkg/db/models"
	"github.com/storekit/priceindex/pkg/enums"
	pkgerrors "github.com/storekit/priceindex/pkg/errors"
	"github.com/storekit/priceindex/pkg/logger"
	"github.com/storekit/priceindex/pkg/metrics"
	"gorm.io/gorm"
)

// Reindex modes, used as metric labels and log fields.
const (
	ModeFull = "full"
	ModeRows = "rows"
	ModeRow  = "row"
)

// CatalogReader is the read surface of the catalog the pipeline consumes.
// *catalog.Repository satisfies it; tests substitute stubs.
type CatalogReader interface {
	CustomerGroups(ctx context.Context) ([]models.CustomerGroup, error)
	EntityIDs(ctx context.Context) ([]uint32, error)
	Products(ctx context.Context, ids []uint32) ([]models.Product, error)
	ProductsByType(ctx context.Context, typeID enums.ProductType, ids []uint32) ([]models.Product, error)
	PriceRows(ctx context.Context, ids []uint32) (map[uint32]map[uint32]models.ProductPrice, error)
	TierPriceRules(ctx context.Context, ids []uint32) (map[uint32][]models.TierPrice, error)
	BundleOptions(ctx context.Context, parentIDs []uint32) (map[uint32][]models.BundleOption, error)
	BundleSelections(ctx context.Context, parentIDs []uint32) (map[uint32][]models.BundleSelection, error)
	LinkedChildren(ctx context.Context, linkType enums.ProductLinkType, parentIDs []uint32) (map[uint32][]uint32, error)
	CompositeChildren(ctx context.Context, ids []uint32) ([]uint32, error)
	CompositeParents(ctx context.Context, ids []uint32) ([]uint32, error)
	DownloadableLinks(ctx context.Context, ids []uint32) (map[uint32][]models.DownloadableLink, error)
	DownloadableLinkPrices(ctx context.Context, linkIDs []uint32) (map[uint32]map[uint32]models.DownloadableLinkPrice, error)
	Options(ctx context.Context, ids []uint32) (map[uint32][]models.ProductOption, error)
	OptionPrices(ctx context.Context, optionIDs []uint32) (map[uint32]map[uint32]models.ProductOptionPrice, error)
	OptionValues(ctx context.Context, optionIDs []uint32) (map[uint32][]models.ProductOptionValue, error)
	OptionValuePrices(ctx context.Context, valueIDs []uint32) (map[uint32]map[uint32]models.ProductOptionValuePrice, error)
	StockStatuses(ctx context.Context, ids []uint32) (map[uint32]map[uint32]models.StockStatus, error)
}

var _ CatalogReader = (*catalog.Repository)(nil)

// Orchestrator drives the reindex pipeline in its three modes. Full rebuilds
// replicas and swaps them in atomically; Rows recomputes a bounded id set in
// place; Row is the single-entity special case of Rows.
type Orchestrator struct {
	scope      scope.Config
	catalog    CatalogReader
	rateSource rates.StoreSource
	maintainer *TableMaintainer
	client     *db.Client
	metrics    *metrics.ReindexMetrics
	logg       *logger.Logger
	batchSize  int
	now        func() time.Time
}

// OrchestratorDeps are the collaborators an Orchestrator needs.
type OrchestratorDeps struct {
	Scope      scope.Config
	Catalog    CatalogReader
	RateSource rates.StoreSource
	Maintainer *TableMaintainer
	Client     *db.Client
	Metrics    *metrics.ReindexMetrics
	Logger     *logger.Logger
	BatchSize  int
}

// NewOrchestrator validates the dependency set and builds an Orchestrator.
func NewOrchestrator(deps OrchestratorDeps) (*Orchestrator, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog reader is required")
	}
	if deps.RateSource == nil {
		return nil, fmt.Errorf("rate source is required")
	}
	if deps.Maintainer == nil {
		return nil, fmt.Errorf("table maintainer is required")
	}
	if deps.Client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if err := deps.Scope.Validate(); err != nil {
		return nil, err
	}
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Orchestrator{
		scope:      deps.Scope,
		catalog:    deps.Catalog,
		rateSource: deps.RateSource,
		maintainer: deps.Maintainer,
		client:     deps.Client,
		metrics:    deps.Metrics,
		logg:       deps.Logger,
		batchSize:  batchSize,
		now:        time.Now,
	}, nil
}

// runContext is the per-run state shared by every mode.
type runContext struct {
	ctx      context.Context
	cache    *rates.Cache
	stores   []rates.Row
	groupIDs []uint32
	combos   []dimension.Combination
}

func (o *Orchestrator) prepareRun(ctx context.Context, mode string) (*runContext, error) {
	if o.logg != nil {
		ctx = o.logg.WithRunID(ctx, uuid.NewString())
		ctx = o.logg.WithField(ctx, "mode", mode)
	}

	cache, err := rates.Build(ctx, o.rateSource, o.scope.BaseCurrency, o.now(), o.logg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "building store rate cache")
	}
	stores := cache.Stores()
	if len(stores) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeSkipped, "no active stores to index")
	}

	groups, err := o.catalog.CustomerGroups(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer groups")
	}
	if len(groups) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeSkipped, "no customer groups to index")
	}
	groupIDs := make([]uint32, 0, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
	}

	resolver := dimension.NewResolver(o.scope.DimensionMode, cache.StoreIDs(), groupIDs)
	return &runContext{
		ctx:      ctx,
		cache:    cache,
		stores:   stores,
		groupIDs: groupIDs,
		combos:   resolver.Combinations(),
	}, nil
}

// ReindexFull recomputes the whole catalog into fresh replica tables and
// swaps them in atomically. Readers keep the previous index until the swap
// commits.
func (o *Orchestrator) ReindexFull(ctx context.Context) error {
	started := o.now()
	err := o.reindexFull(ctx)
	o.observe(ModeFull, started, err)
	return err
}

func (o *Orchestrator) reindexFull(ctx context.Context) error {
	run, err := o.prepareRun(ctx, ModeFull)
	if err != nil {
		return o.demoteSkip(ctx, err)
	}
	ctx = run.ctx

	if err := o.maintainer.EnsureMain(ctx, run.combos); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring live tables")
	}
	o.maintainer.CleanupScratch(ctx, run.combos)

	ids, err := o.catalog.EntityIDs(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing entities")
	}
	if o.logg != nil {
		ctx = o.logg.WithEntityCount(ctx, len(ids))
		o.logg.Info(ctx, "starting full reindex")
	}

	set, err := o.compute(ctx, ids, run)
	if err != nil {
		return err
	}

	rows := set.Rows()
	for _, combo := range run.combos {
		if err := o.maintainer.CreateReplica(ctx, combo); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeAborted, err, "provisioning replica")
		}
		comboRows := filterRows(rows, combo)
		if err := o.maintainer.InsertRows(ctx, o.client.DB(), o.maintainer.ReplicaTable(combo), comboRows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeAborted, err, "loading replica")
		}
	}

	if err := o.maintainer.SwapAll(ctx, run.combos); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAborted, err, "publishing rebuilt index")
	}

	o.addRows(ModeFull, len(rows))
	if o.logg != nil {
		o.logg.Info(ctx, "full reindex published")
	}
	return nil
}

// ReindexRow recomputes a single entity in place.
func (o *Orchestrator) ReindexRow(ctx context.Context, entityID uint32) error {
	started := o.now()
	err := o.reindexRows(ctx, ModeRow, []uint32{entityID})
	o.observe(ModeRow, started, err)
	return err
}

// ReindexRows recomputes a bounded id set in place, chunked so each
// delete-and-insert transaction stays small. Composite parents of the given
// ids are recomputed too.
func (o *Orchestrator) ReindexRows(ctx context.Context, entityIDs []uint32) error {
	started := o.now()
	err := o.reindexRows(ctx, ModeRows, entityIDs)
	o.observe(ModeRows, started, err)
	return err
}

func (o *Orchestrator) reindexRows(ctx context.Context, mode string, entityIDs []uint32) error {
	if len(entityIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no entity ids given")
	}
	run, err := o.prepareRun(ctx, mode)
	if err != nil {
		return o.demoteSkip(ctx, err)
	}
	ctx = run.ctx

	if err := o.maintainer.EnsureMain(ctx, run.combos); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring live tables")
	}

	computeSet, persistSet, err := o.expand(ctx, entityIDs)
	if err != nil {
		return err
	}
	if o.logg != nil {
		ctx = o.logg.WithEntityCount(ctx, len(persistSet))
		o.logg.Info(ctx, "starting partial reindex")
	}

	set, err := o.compute(ctx, computeSet, run)
	if err != nil {
		return err
	}

	written := 0
	for start := 0; start < len(persistSet); start += o.batchSize {
		end := start + o.batchSize
		if end > len(persistSet) {
			end = len(persistSet)
		}
		chunk := persistSet[start:end]
		chunkRows := rowsForEntities(set, chunk)

		err := o.client.WithTx(ctx, func(tx *gorm.DB) error {
			for _, combo := range run.combos {
				table := o.maintainer.LiveTable(combo)
				if err := o.maintainer.DeleteEntities(ctx, tx, table, chunk); err != nil {
					return err
				}
				if err := o.maintainer.InsertRows(ctx, tx, table, filterRows(chunkRows, combo)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeAborted, err, "replacing index rows")
		}
		written += len(chunkRows)
	}

	o.addRows(mode, written)
	if o.logg != nil {
		o.logg.Info(ctx, "partial reindex finished")
	}
	return nil
}

// expand widens the requested id set. Parents referencing a changed child
// must be re-aggregated, and every parent needs all of its children computed,
// so the compute set closes over both directions while only the requested
// ids and their parents are persisted.
func (o *Orchestrator) expand(ctx context.Context, ids []uint32) (computeSet, persistSet []uint32, err error) {
	parents, err := o.catalog.CompositeParents(ctx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expanding composite parents")
	}
	persist := dedupe(append(append([]uint32{}, ids...), parents...))

	children, err := o.catalog.CompositeChildren(ctx, persist)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expanding composite children")
	}
	compute := dedupe(append(append([]uint32{}, persist...), children...))
	return compute, persist, nil
}

// compute runs the per-type pipeline over the id set and returns the result
// rows. The type order guarantees every composite sees its children's rows.
func (o *Orchestrator) compute(ctx context.Context, ids []uint32, run *runContext) (*ResultSet, error) {
	set := NewResultSet()
	if len(ids) == 0 {
		return set, nil
	}

	prices, err := o.catalog.PriceRows(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading price attributes")
	}
	tierRules, err := o.catalog.TierPriceRules(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading tier price rules")
	}
	stock, err := o.catalog.StockStatuses(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading stock statuses")
	}

	base := NewBaseCalculator(o.scope, tierprice.NewResolver())
	inputs := func(product models.Product) EntityInputs {
		return EntityInputs{Product: product, Prices: prices[product.EntityID], TierRules: tierRules[product.EntityID]}
	}

	for _, typeID := range []enums.ProductType{enums.ProductTypeSimple, enums.ProductTypeVirtual} {
		products, err := o.catalog.ProductsByType(ctx, typeID, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products")
		}
		for _, product := range products {
			base.Compute(inputs(product), run.groupIDs, run.stores, set)
		}
	}

	if err := o.computeDownloadable(ctx, ids, base, inputs, run, set); err != nil {
		return nil, err
	}
	if err := o.computeBundles(ctx, ids, base, inputs, run, set); err != nil {
		return nil, err
	}
	if err := o.computeConfigurables(ctx, ids, base, inputs, stock, run, set); err != nil {
		return nil, err
	}
	if err := o.computeGrouped(ctx, ids, run, set); err != nil {
		return nil, err
	}
	if err := o.applyCustomOptions(ctx, ids, run, set); err != nil {
		return nil, err
	}

	NewStockFilter(o.scope).Apply(stock, run.stores, set)
	return set, nil
}

func (o *Orchestrator) computeDownloadable(ctx context.Context, ids []uint32, base *BaseCalculator, inputs func(models.Product) EntityInputs, run *runContext, set *ResultSet) error {
	products, err := o.catalog.ProductsByType(ctx, enums.ProductTypeDownloadable, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading downloadable products")
	}
	if len(products) == 0 {
		return nil
	}
	productIDs := entityIDsOf(products)
	links, err := o.catalog.DownloadableLinks(ctx, productIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading downloadable links")
	}
	linkIDs := make([]uint32, 0)
	for _, productLinks := range links {
		for _, link := range productLinks {
			linkIDs = append(linkIDs, link.ID)
		}
	}
	linkPrices, err := o.catalog.DownloadableLinkPrices(ctx, linkIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading downloadable link prices")
	}

	aggregator := NewDownloadableAggregator(base)
	for _, product := range products {
		aggregator.Compute(DownloadableInputs{
			EntityInputs: inputs(product),
			Links:        links[product.EntityID],
			LinkPrices:   linkPrices,
		}, run.groupIDs, run.stores, set)
	}
	return nil
}

func (o *Orchestrator) computeBundles(ctx context.Context, ids []uint32, base *BaseCalculator, inputs func(models.Product) EntityInputs, run *runContext, set *ResultSet) error {
	products, err := o.catalog.ProductsByType(ctx, enums.ProductTypeBundle, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading bundle products")
	}
	if len(products) == 0 {
		return nil
	}
	parentIDs := entityIDsOf(products)
	options, err := o.catalog.BundleOptions(ctx, parentIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading bundle options")
	}
	selections, err := o.catalog.BundleSelections(ctx, parentIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading bundle selections")
	}

	aggregator := NewBundleAggregator(base)
	for _, product := range products {
		aggregator.Compute(BundleInputs{
			EntityInputs: inputs(product),
			Options:      options[product.EntityID],
			Selections:   selections,
		}, run.groupIDs, run.stores, set)
	}
	return nil
}

func (o *Orchestrator) computeConfigurables(ctx context.Context, ids []uint32, base *BaseCalculator, inputs func(models.Product) EntityInputs, stock map[uint32]map[uint32]models.StockStatus, run *runContext, set *ResultSet) error {
	products, err := o.catalog.ProductsByType(ctx, enums.ProductTypeConfigurable, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading configurable products")
	}
	if len(products) == 0 {
		return nil
	}
	children, err := o.catalog.LinkedChildren(ctx, enums.ProductLinkTypeConfigurable, entityIDsOf(products))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading configurable links")
	}

	aggregator := NewConfigurableAggregator(base, o.scope)
	for _, product := range products {
		aggregator.Compute(ConfigurableInputs{
			EntityInputs: inputs(product),
			ChildIDs:     children[product.EntityID],
			Stock:        stock,
		}, run.groupIDs, run.stores, set)
	}
	return nil
}

func (o *Orchestrator) computeGrouped(ctx context.Context, ids []uint32, run *runContext, set *ResultSet) error {
	products, err := o.catalog.ProductsByType(ctx, enums.ProductTypeGrouped, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading grouped products")
	}
	if len(products) == 0 {
		return nil
	}
	links, err := o.catalog.LinkedChildren(ctx, enums.ProductLinkTypeGrouped, entityIDsOf(products))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading grouped links")
	}
	childIDs := make([]uint32, 0)
	for _, linked := range links {
		childIDs = append(childIDs, linked...)
	}
	children, err := o.catalog.Products(ctx, dedupe(childIDs))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading grouped children")
	}
	childByID := make(map[uint32]models.Product, len(children))
	for _, child := range children {
		childByID[child.EntityID] = child
	}

	aggregator := NewGroupedAggregator()
	for _, product := range products {
		linked := make([]models.Product, 0, len(links[product.EntityID]))
		for _, childID := range links[product.EntityID] {
			if child, ok := childByID[childID]; ok {
				linked = append(linked, child)
			}
		}
		aggregator.Compute(GroupedInputs{Product: product, Children: linked}, run.groupIDs, run.stores, set)
	}
	return nil
}

func (o *Orchestrator) applyCustomOptions(ctx context.Context, ids []uint32, run *runContext, set *ResultSet) error {
	options, err := o.catalog.Options(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading custom options")
	}
	if len(options) == 0 {
		return nil
	}
	optionIDs := make([]uint32, 0)
	for _, productOptions := range options {
		for _, option := range productOptions {
			optionIDs = append(optionIDs, option.ID)
		}
	}
	optionPrices, err := o.catalog.OptionPrices(ctx, optionIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading custom option prices")
	}
	values, err := o.catalog.OptionValues(ctx, optionIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading custom option values")
	}
	valueIDs := make([]uint32, 0)
	for _, optionValues := range values {
		for _, value := range optionValues {
			valueIDs = append(valueIDs, value.ID)
		}
	}
	valuePrices, err := o.catalog.OptionValuePrices(ctx, valueIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading custom option value prices")
	}

	modifier := NewCustomOptionModifier()
	for entityID, productOptions := range options {
		modifier.Apply(entityID, OptionInputs{
			Options:      productOptions,
			OptionPrices: optionPrices,
			Values:       values,
			ValuePrices:  valuePrices,
		}, run.groupIDs, run.stores, set)
	}
	return nil
}

// demoteSkip converts a SKIPPED preparation outcome into a logged no-op so
// callers do not treat an empty catalog as a failure.
func (o *Orchestrator) demoteSkip(ctx context.Context, err error) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeSkipped {
		if o.logg != nil {
			o.logg.Warn(ctx, typed.Message())
		}
		return nil
	}
	return err
}

func (o *Orchestrator) observe(mode string, started time.Time, err error) {
	if o.metrics == nil {
		return
	}
	o.metrics.ObserveDuration(mode, o.now().Sub(started))
	if err != nil {
		o.metrics.IncFailure(mode)
		return
	}
	o.metrics.IncSuccess(mode)
}

func (o *Orchestrator) addRows(mode string, count int) {
	if o.metrics != nil {
		o.metrics.AddRowsWritten(mode, count)
	}
}

// filterRows keeps the rows belonging to a dimension combination's table.
func filterRows(rows []*Row, combo dimension.Combination) []*Row {
	filtered := make([]*Row, 0, len(rows))
	for _, row := range rows {
		if combo.Matches(row.StoreID, row.CustomerGroupID) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// rowsForEntities extracts the computed rows of the given entities, ordered.
func rowsForEntities(set *ResultSet, ids []uint32) []*Row {
	wanted := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	rows := make([]*Row, 0)
	for _, row := range set.Rows() {
		if _, ok := wanted[row.EntityID]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func entityIDsOf(products []models.Product) []uint32 {
	ids := make([]uint32, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.EntityID)
	}
	return ids
}

func dedupe(ids []uint32) []uint32 {
	seen := make(map[uint32]struct{}, len(ids))
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

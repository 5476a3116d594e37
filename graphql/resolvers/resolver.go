package resolvers

import (
	"context"
	"encoding/json"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"repairshop.GO/core/apperror"
	"repairshop.GO/core/cache"
	gqlmodels "repairshop.GO/graphql/models"
	gqlregistry "repairshop.GO/graphql/registry"
	catalogRepo "repairshop.GO/model/repository/catalog"
	salesRepo "repairshop.GO/model/repository/sales"
	"repairshop.GO/service/analytics"
	"repairshop.GO/service/catalog"
	"repairshop.GO/service/sales"
)

// QueryResolver is the single resolver for all Query fields. It only reads;
// mutations go through the REST API.
type QueryResolver struct {
	parts *catalog.Service
	sales *sales.Recorder
	stats *analytics.Service
}

func NewQueryResolver(db *gorm.DB, store cache.Store, log logrus.FieldLogger) (*QueryResolver, error) {
	parts, err := catalog.NewService(db, nil, log)
	if err != nil {
		return nil, err
	}
	rec, err := sales.NewRecorder(db, nil, log, "")
	if err != nil {
		return nil, err
	}
	stats, err := analytics.NewService(db, store, log)
	if err != nil {
		return nil, err
	}
	return &QueryResolver{parts: parts, sales: rec, stats: stats}, nil
}

type PartsArgs struct {
	Q           *string
	LowStock    *bool
	PageSize    *int32
	CurrentPage *int32
}

func (r *QueryResolver) Parts(ctx context.Context, args PartsArgs) (*gqlmodels.PartPage, error) {
	var f catalogRepo.PartFilter
	if args.Q != nil {
		f.Query = *args.Q
	}
	if args.LowStock != nil {
		f.LowStockOnly = *args.LowStock
	}
	views, p, err := r.parts.List(ctx, f, page(args.PageSize, args.CurrentPage))
	if err != nil {
		return nil, err
	}
	return &gqlmodels.PartPage{Items: toParts(views), Pagination: toPagination(p)}, nil
}

func (r *QueryResolver) Part(ctx context.Context, args struct{ ID gql.ID }) (*gqlmodels.Part, error) {
	detail, err := r.parts.Get(ctx, string(args.ID))
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toPart(detail.PartView), nil
}

func (r *QueryResolver) LowStock(ctx context.Context, args struct{ Limit *int32 }) ([]*gqlmodels.Part, error) {
	limit := 10
	if args.Limit != nil && *args.Limit > 0 {
		limit = int(*args.Limit)
	}
	views, err := r.parts.LowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toParts(views), nil
}

type SalesArgs struct {
	Q           *string
	PageSize    *int32
	CurrentPage *int32
}

func (r *QueryResolver) Sales(ctx context.Context, args SalesArgs) (*gqlmodels.SalePage, error) {
	var f salesRepo.Filter
	if args.Q != nil {
		f.Query = *args.Q
	}
	list, p, err := r.sales.List(ctx, f, page(args.PageSize, args.CurrentPage))
	if err != nil {
		return nil, err
	}
	return &gqlmodels.SalePage{Items: toSales(list), Pagination: toPagination(p)}, nil
}

func (r *QueryResolver) Sale(ctx context.Context, args struct{ ID gql.ID }) (*gqlmodels.Sale, error) {
	s, err := r.sales.Get(ctx, string(args.ID))
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toSale(*s), nil
}

func (r *QueryResolver) Dashboard(ctx context.Context) (*gqlmodels.Dashboard, error) {
	d, err := r.stats.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	out := &gqlmodels.Dashboard{
		TotalParts:         int32(d.TotalParts),
		LowStockCount:      int32(d.LowStockCount),
		InventoryValue:     money(d.InventoryValue),
		RecentTransactions: int32(d.RecentTransactions),
		LowStockParts:      toParts(d.LowStockParts),
		RecentSales:        toSales(d.RecentSales),
		LatestTransactions: make([]*gqlmodels.Transaction, len(d.LatestTransactions)),
	}
	for i, t := range d.LatestTransactions {
		out.LatestTransactions[i] = toTransaction(t)
	}
	return out, nil
}

// Extension dispatches to registered custom resolvers.
func (r *QueryResolver) Extension(ctx context.Context, args struct {
	Name string
	Args *string
}) (*string, error) {
	m := make(map[string]interface{})
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	out, err := gqlregistry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, _ := json.Marshal(out)
	s := string(b)
	return &s, nil
}

package resolvers

import (
	"time"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"

	gqlmodels "repairshop.GO/graphql/models"
	catalogEntity "repairshop.GO/model/entity/catalog"
	inventoryEntity "repairshop.GO/model/entity/inventory"
	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository"
	"repairshop.GO/service/catalog"
)

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func name(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toPagination(p repository.Pagination) *gqlmodels.Pagination {
	return &gqlmodels.Pagination{
		Page:       int32(p.Page),
		Limit:      int32(p.Limit),
		TotalCount: int32(p.TotalCount),
		TotalPages: int32(p.TotalPages),
	}
}

func toModel(m catalogEntity.DeviceModel) *gqlmodels.DeviceModel {
	out := &gqlmodels.DeviceModel{ID: gql.ID(m.ID), Name: m.Name, Slug: m.Slug}
	if f := m.Family; f != nil {
		out.Family = name(f.Name)
		if b := f.Brand; b != nil {
			out.Brand = name(b.Name)
			if p := b.Platform; p != nil {
				out.Platform = name(p.Name)
			}
		}
	}
	return out
}

func toPart(v catalog.PartView) *gqlmodels.Part {
	out := &gqlmodels.Part{
		ID:                gql.ID(v.ID),
		Name:              v.Name,
		Description:       v.Description,
		SKU:               v.SKU,
		RealCost:          money(v.RealCost),
		SellingPrice:      money(v.SellingPrice),
		Stock:             int32(v.Stock),
		LowStockThreshold: int32(v.LowStockThreshold),
		IsLowStock:        v.IsLowStock,
		Models:            make([]*gqlmodels.DeviceModel, 0, len(v.Models)),
		CreatedAt:         stamp(v.CreatedAt),
		UpdatedAt:         stamp(v.UpdatedAt),
	}
	for _, m := range v.Models {
		out.Models = append(out.Models, toModel(m))
	}
	return out
}

func toParts(views []catalog.PartView) []*gqlmodels.Part {
	out := make([]*gqlmodels.Part, len(views))
	for i, v := range views {
		out[i] = toPart(v)
	}
	return out
}

func toTransaction(t inventoryEntity.Transaction) *gqlmodels.Transaction {
	out := &gqlmodels.Transaction{
		ID:        gql.ID(t.ID),
		Type:      string(t.Type),
		Quantity:  int32(t.Quantity),
		Reason:    t.Reason,
		PartID:    gql.ID(t.PartID),
		CreatedAt: stamp(t.CreatedAt),
	}
	if t.SaleID != nil {
		id := gql.ID(*t.SaleID)
		out.SaleID = &id
	}
	return out
}

func toSale(s salesEntity.Sale) *gqlmodels.Sale {
	out := &gqlmodels.Sale{
		ID:            gql.ID(s.ID),
		Reference:     s.Reference(),
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		CustomerEmail: s.CustomerEmail,
		TotalAmount:   money(s.TotalAmount),
		Discount:      money(s.Discount),
		FinalAmount:   money(s.FinalAmount),
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		Notes:         s.Notes,
		Items:         make([]*gqlmodels.SaleItem, 0, len(s.Items)),
		CreatedAt:     stamp(s.CreatedAt),
	}
	for _, it := range s.Items {
		item := &gqlmodels.SaleItem{
			ID:         gql.ID(it.ID),
			PartID:     gql.ID(it.PartID),
			Quantity:   int32(it.Quantity),
			UnitPrice:  money(it.UnitPrice),
			TotalPrice: money(it.TotalPrice),
		}
		if it.Part != nil {
			item.PartName = name(it.Part.Name)
			item.SKU = name(it.Part.SKU)
		}
		out.Items = append(out.Items, item)
	}
	return out
}

func toSales(list []salesEntity.Sale) []*gqlmodels.Sale {
	out := make([]*gqlmodels.Sale, len(list))
	for i, s := range list {
		out[i] = toSale(s)
	}
	return out
}

// Package models holds the GraphQL view of catalog and sales records.
// Field types follow the schema scalars: Int is int32, ID is graphql.ID and
// nullable values are pointers.
package models

import gql "github.com/graph-gophers/graphql-go"

type Pagination struct {
	Page       int32
	Limit      int32
	TotalCount int32
	TotalPages int32
}

type DeviceModel struct {
	ID       gql.ID
	Name     string
	Slug     string
	Family   *string
	Brand    *string
	Platform *string
}

type Part struct {
	ID                gql.ID
	Name              string
	Description       *string
	SKU               string
	RealCost          float64
	SellingPrice      float64
	Stock             int32
	LowStockThreshold int32
	IsLowStock        bool
	Models            []*DeviceModel
	CreatedAt         string
	UpdatedAt         string
}

type PartPage struct {
	Items      []*Part
	Pagination *Pagination
}

type Transaction struct {
	ID        gql.ID
	Type      string
	Quantity  int32
	Reason    *string
	PartID    gql.ID
	SaleID    *gql.ID
	CreatedAt string
}

type SaleItem struct {
	ID         gql.ID
	PartID     gql.ID
	PartName   *string
	SKU        *string
	Quantity   int32
	UnitPrice  float64
	TotalPrice float64
}

type Sale struct {
	ID            gql.ID
	Reference     string
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	TotalAmount   float64
	Discount      float64
	FinalAmount   float64
	PaymentMethod string
	Status        string
	Notes         *string
	Items         []*SaleItem
	CreatedAt     string
}

type SalePage struct {
	Items      []*Sale
	Pagination *Pagination
}

type Dashboard struct {
	TotalParts         int32
	LowStockCount      int32
	InventoryValue     float64
	RecentTransactions int32
	LowStockParts      []*Part
	RecentSales        []*Sale
	LatestTransactions []*Transaction
}

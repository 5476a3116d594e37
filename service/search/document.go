package search

import (
	"time"

	catalogEntity "repairshop.GO/model/entity/catalog"
)

// Document is the indexed form of a part with its hierarchy flattened into
// slug and name arrays.
type Document struct {
	ID                string    `json:"id" mapstructure:"id"`
	Name              string    `json:"name" mapstructure:"name"`
	Description       string    `json:"description,omitempty" mapstructure:"description"`
	SKU               string    `json:"sku" mapstructure:"sku"`
	RealCost          float64   `json:"realCost" mapstructure:"realCost"`
	SellingPrice      float64   `json:"sellingPrice" mapstructure:"sellingPrice"`
	Stock             int       `json:"stock" mapstructure:"stock"`
	LowStockThreshold int       `json:"lowStockThreshold" mapstructure:"lowStockThreshold"`
	IsLowStock        bool      `json:"isLowStock" mapstructure:"isLowStock"`
	PlatformSlugs     []string  `json:"platformSlugs" mapstructure:"platformSlugs"`
	BrandSlugs        []string  `json:"brandSlugs" mapstructure:"brandSlugs"`
	FamilySlugs       []string  `json:"familySlugs" mapstructure:"familySlugs"`
	ModelSlugs        []string  `json:"modelSlugs" mapstructure:"modelSlugs"`
	PlatformNames     []string  `json:"platformNames" mapstructure:"platformNames"`
	BrandNames        []string  `json:"brandNames" mapstructure:"brandNames"`
	FamilyNames       []string  `json:"familyNames" mapstructure:"familyNames"`
	ModelNames        []string  `json:"modelNames" mapstructure:"modelNames"`
	CreatedAt         time.Time `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" mapstructure:"updatedAt"`
}

type uniq struct {
	seen map[string]bool
	out  []string
}

func (u *uniq) add(s string) {
	if u.seen == nil {
		u.seen = map[string]bool{}
		u.out = []string{}
	}
	if s == "" || u.seen[s] {
		return
	}
	u.seen[s] = true
	u.out = append(u.out, s)
}

func (u *uniq) list() []string {
	if u.out == nil {
		return []string{}
	}
	return u.out
}

// NewDocument flattens p. Models must be preloaded with family, brand and
// platform for the hierarchy arrays to be filled.
func NewDocument(p catalogEntity.Part) Document {
	var ps, bs, fs, ms, pn, bn, fn, mn uniq
	for _, m := range p.Models {
		ms.add(m.Slug)
		mn.add(m.Name)
		f := m.Family
		if f == nil {
			continue
		}
		fs.add(f.Slug)
		fn.add(f.Name)
		if f.Brand == nil {
			continue
		}
		bs.add(f.Brand.Slug)
		bn.add(f.Brand.Name)
		if f.Brand.Platform != nil {
			ps.add(f.Brand.Platform.Slug)
			pn.add(f.Brand.Platform.Name)
		}
	}
	d := Document{
		ID:                p.ID,
		Name:              p.Name,
		SKU:               p.SKU,
		RealCost:          p.RealCost.InexactFloat64(),
		SellingPrice:      p.SellingPrice.InexactFloat64(),
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		PlatformSlugs:     ps.list(),
		BrandSlugs:        bs.list(),
		FamilySlugs:       fs.list(),
		ModelSlugs:        ms.list(),
		PlatformNames:     pn.list(),
		BrandNames:        bn.list(),
		FamilyNames:       fn.list(),
		ModelNames:        mn.list(),
		CreatedAt:         p.CreatedAt.UTC(),
		UpdatedAt:         p.UpdatedAt.UTC(),
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	return d
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "name": {"type": "text", "analyzer": "standard"},
      "description": {"type": "text", "analyzer": "standard"},
      "sku": {"type": "keyword"},
      "realCost": {"type": "float"},
      "sellingPrice": {"type": "float"},
      "stock": {"type": "integer"},
      "lowStockThreshold": {"type": "integer"},
      "isLowStock": {"type": "boolean"},
      "platformSlugs": {"type": "keyword"},
      "brandSlugs": {"type": "keyword"},
      "familySlugs": {"type": "keyword"},
      "modelSlugs": {"type": "keyword"},
      "platformNames": {"type": "text", "analyzer": "standard"},
      "brandNames": {"type": "text", "analyzer": "standard"},
      "familyNames": {"type": "text", "analyzer": "standard"},
      "modelNames": {"type": "text", "analyzer": "standard"},
      "createdAt": {"type": "date"},
      "updatedAt": {"type": "date"}
    }
  }
}`

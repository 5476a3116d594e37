// Package entity lists the persisted models in migration order.
package entity

import (
	"repairshop.GO/model/entity/catalog"
	"repairshop.GO/model/entity/inventory"
	"repairshop.GO/model/entity/sales"
)

// Models returns every table-backed model, parents before children.
func Models() []interface{} {
	return []interface{}{
		&catalog.Platform{},
		&catalog.Brand{},
		&catalog.Family{},
		&catalog.DeviceModel{},
		&catalog.Part{},
		&catalog.PartModel{},
		&sales.Sale{},
		&sales.SaleItem{},
		&inventory.Transaction{},
	}
}

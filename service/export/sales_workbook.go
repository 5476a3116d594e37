// Package export renders sales as an XLSX workbook.
package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	salesEntity "repairshop.GO/model/entity/sales"
)

const (
	SheetSales = "Sales"
	SheetItems = "Items"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	salesHeadings = []interface{}{"Reference", "Date", "Customer", "Phone", "Email", "Payment", "Status", "Items", "Total", "Discount", "Final", "Notes"}
	itemHeadings  = []interface{}{"Reference", "Date", "SKU", "Part", "Quantity", "Unit Price", "Line Total"}
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SalesWorkbook builds a workbook with one row per sale on the Sales sheet
// and one row per line item on the Items sheet.
func SalesWorkbook(sales []salesEntity.Sale) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSales); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetItems); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SheetSales, "A1", &salesHeadings); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(SheetItems, "A1", &itemHeadings); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, s := range sales {
		qty := 0
		for _, it := range s.Items {
			qty += it.Quantity
		}
		date := s.CreatedAt.Format("2006-01-02 15:04")
		row := []interface{}{
			s.Reference(), date, deref(s.CustomerName), deref(s.CustomerPhone), deref(s.CustomerEmail),
			string(s.PaymentMethod), string(s.Status), qty,
			s.TotalAmount.InexactFloat64(), s.Discount.InexactFloat64(), s.FinalAmount.InexactFloat64(),
			deref(s.Notes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetSales, cell, &row); err != nil {
			return nil, err
		}

		for _, it := range s.Items {
			sku, name := "", ""
			if it.Part != nil {
				sku, name = it.Part.SKU, it.Part.Name
			}
			line := []interface{}{
				s.Reference(), date, sku, name, it.Quantity,
				it.UnitPrice.InexactFloat64(), it.TotalPrice.InexactFloat64(),
			}
			cell, _ := excelize.CoordinatesToCellName(1, itemRow)
			if err := f.SetSheetRow(SheetItems, cell, &line); err != nil {
				return nil, err
			}
			itemRow++
		}
	}
	return f, nil
}

// WriteSales streams the workbook for sales to w.
func WriteSales(w io.Writer, sales []salesEntity.Sale) error {
	f, err := SalesWorkbook(sales)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"repairshop.GO/core/apperror"
)

// ImportResult holds counters and timing from an import run.
type ImportResult struct {
	TotalRows int           `json:"totalRows"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Warnings  []string      `json:"warnings,omitempty"`
	TotalTime time.Duration `json:"totalTime"`
}

var importColumns = map[string]bool{
	"sku": true, "name": true, "description": true, "realCost": true,
	"sellingPrice": true, "stock": true, "lowStockThreshold": true,
}

type importRow struct {
	cols   map[string]int
	values []string
}

func (r importRow) get(col string) (string, bool) {
	i, ok := r.cols[col]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return strings.TrimSpace(r.values[i]), true
}

func (r importRow) decimal(col string) (*decimal.Decimal, error) {
	v, ok := r.get(col)
	if !ok || v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", col, v)
	}
	return &d, nil
}

func (r importRow) int(col string) (*int, error) {
	v, ok := r.get(col)
	if !ok || v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not an integer", col, v)
	}
	return &n, nil
}

// ImportCSV upserts parts by SKU. New SKUs are created with an opening
// ledger entry; existing ones are updated and any stock difference is
// booked as a correction. Bad rows are skipped with a warning.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, apperror.Validation("read CSV header: "+err.Error(), nil)
	}
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		cols[h] = i
	}
	if _, ok := cols["sku"]; !ok {
		return nil, apperror.Validation("CSV must contain a 'sku' column", map[string]string{"sku": "required"})
	}

	result := &ImportResult{}
	for h := range cols {
		if !importColumns[h] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("column %q: unknown, skipping", h))
		}
	}

	line := 1
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return result, apperror.Validation(fmt.Sprintf("line %d: %v", line, err), nil)
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.TotalRows++

		created, err := s.importRow(ctx, importRow{cols: cols, values: values})
		switch {
		case err != nil:
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", line, err))
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}

	result.TotalTime = time.Since(start)
	s.log.WithFields(logrus.Fields{
		"rows":    result.TotalRows,
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("parts import finished")
	return result, nil
}

func (s *Service) importRow(ctx context.Context, row importRow) (bool, error) {
	sku, _ := row.get("sku")
	if sku == "" {
		return false, errors.New("sku is empty")
	}
	realCost, err := row.decimal("realCost")
	if err != nil {
		return false, err
	}
	sellingPrice, err := row.decimal("sellingPrice")
	if err != nil {
		return false, err
	}
	stock, err := row.int("stock")
	if err != nil {
		return false, err
	}
	threshold, err := row.int("lowStockThreshold")
	if err != nil {
		return false, err
	}
	var description *string
	if v, ok := row.get("description"); ok && v != "" {
		description = &v
	}
	name, _ := row.get("name")

	existing, err := s.parts.FindBySKU(ctx, sku)
	if err != nil {
		return false, err
	}
	if existing == nil {
		in := CreateInput{Name: name, Description: description, SKU: sku, LowStockThreshold: 5}
		if realCost != nil {
			in.RealCost = *realCost
		}
		if sellingPrice != nil {
			in.SellingPrice = *sellingPrice
		}
		if stock != nil {
			in.Stock = *stock
		}
		if threshold != nil {
			in.LowStockThreshold = *threshold
		}
		_, err := s.Create(ctx, in)
		return true, err
	}

	up := UpdateInput{
		Description:       description,
		RealCost:          realCost,
		SellingPrice:      sellingPrice,
		Stock:             stock,
		LowStockThreshold: threshold,
	}
	if name != "" {
		up.Name = &name
	}
	_, err = s.Update(ctx, existing.ID, up)
	return false, err
}

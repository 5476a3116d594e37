package sales

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"repairshop.GO/core/apperror"
	salesEntity "repairshop.GO/model/entity/sales"
	"repairshop.GO/model/repository"
	salesRepo "repairshop.GO/model/repository/sales"
)

// Get returns a sale with its items and parts.
func (r *Recorder) Get(ctx context.Context, id string) (*salesEntity.Sale, error) {
	s, err := r.sales.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Sale not found")
	}
	if err != nil {
		return nil, apperror.Internal("get sale", err)
	}
	return s, nil
}

// List returns a filtered page of sales.
func (r *Recorder) List(ctx context.Context, f salesRepo.Filter, page repository.Page) ([]salesEntity.Sale, repository.Pagination, error) {
	list, total, err := r.sales.List(ctx, f, page)
	if err != nil {
		return nil, repository.Pagination{}, apperror.Internal("list sales", err)
	}
	return list, page.Result(total), nil
}

// All returns every sale matching f.
func (r *Recorder) All(ctx context.Context, f salesRepo.Filter) ([]salesEntity.Sale, error) {
	list, err := r.sales.All(ctx, f)
	return list, apperror.Wrap("list sales", err)
}

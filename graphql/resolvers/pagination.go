package resolvers

import "repairshop.GO/model/repository"

func defaultPageSize(p *int32) int {
	if p != nil && *p > 0 {
		return int(*p)
	}
	return repository.DefaultLimit
}

func defaultCurrentPage(p *int32) int {
	if p != nil && *p > 0 {
		return int(*p)
	}
	return 1
}

func page(pageSize, currentPage *int32) repository.Page {
	return repository.Page{Page: defaultCurrentPage(currentPage), Limit: defaultPageSize(pageSize)}.Normalize()
}

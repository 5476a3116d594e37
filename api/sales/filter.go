package sales

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"repairshop.GO/core/apperror"
	salesEntity "repairshop.GO/model/entity/sales"
	salesRepo "repairshop.GO/model/repository/sales"
)

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// FilterFromQuery reads q, startDate, endDate, status, paymentMethod,
// minAmount and maxAmount. Malformed values are validation errors.
func FilterFromQuery(v url.Values) (salesRepo.Filter, error) {
	f := salesRepo.Filter{
		Query:         strings.TrimSpace(v.Get("q")),
		Status:        salesEntity.Status(v.Get("status")),
		PaymentMethod: salesEntity.PaymentMethod(v.Get("paymentMethod")),
	}
	bad := map[string]string{}
	for key, dst := range map[string]**time.Time{"startDate": &f.StartDate, "endDate": &f.EndDate} {
		if s := v.Get(key); s != "" {
			t, err := ParseDate(s)
			if err != nil {
				bad[key] = "date"
				continue
			}
			*dst = &t
		}
	}
	for key, dst := range map[string]**decimal.Decimal{"minAmount": &f.MinAmount, "maxAmount": &f.MaxAmount} {
		if s := v.Get(key); s != "" {
			d, err := decimal.NewFromString(s)
			if err != nil {
				bad[key] = "number"
				continue
			}
			*dst = &d
		}
	}
	if len(bad) > 0 {
		return f, apperror.Validation("Invalid query parameters", bad)
	}
	return f, nil
}

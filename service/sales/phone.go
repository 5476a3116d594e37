package sales

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone returns raw in E.164 form when it parses as a valid number
// for region; anything else is kept as typed.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return raw
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}

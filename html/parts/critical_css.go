package parts

import (
	_ "embed"
	"html/template"
)

//go:embed receipt.css
var receiptCSS string

// CriticalCSS is the inline stylesheet for printable pages.
func CriticalCSS() template.CSS {
	return template.CSS(receiptCSS)
}

package html

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"repairshop.GO/html/parts"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template is an echo.Renderer over the embedded templates.
type Template struct {
	Templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.Templates.ExecuteTemplate(w, name, data)
}

// NewRenderer parses every embedded template with the shared helpers.
func NewRenderer() *Template {
	return &Template{
		Templates: template.Must(template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")),
	}
}

// Funcs returns the helpers available to templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(currency string, d decimal.Decimal) string {
			return currency + " " + d.StringFixed(2)
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"add":         func(a, b int) int { return a + b },
		"criticalCSS": parts.CriticalCSS,
	}
}

package templates

import (
	"embed"
	"html/template"
	"time"

	"storefront-service/models"
)

//go:embed *.html
var files embed.FS

// Page names as registered with the gin renderer.
const (
	MenuPage           = "menu.html"
	PaymentSuccessPage = "payment_success.html"
	OrdersPage         = "orders.html"
)

var funcs = template.FuncMap{
	"money": models.FormatPrice,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"increment": func(n int) int { return n + 1 },
	"decrement": func(n int) int { return n - 1 },
}

// Load parses all embedded pages together with the shared layout blocks.
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}

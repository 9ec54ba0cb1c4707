package storefront

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageCatalog = "catalog"
	PageCart    = "cart"
)

// PageData feeds the page templates.
type PageData struct {
	StoreName   string
	Title       string
	Badge       int
	Products    []catalog.Product
	Prices      map[string]string
	Cart        *cart.View
	Toasts      []string
	Alerts      []string
	Prompt      string
	OpenURL     template.URL
	ToastMillis int64
}

// NewPageData projects a Session onto a page.
func NewPageData(storeName, title string, toast time.Duration, s *Session) PageData {
	return PageData{
		StoreName:   storeName,
		Title:       title,
		Badge:       s.Badge,
		Cart:        s.View,
		Toasts:      s.Toasts,
		Alerts:      s.Alerts,
		Prompt:      s.Prompt,
		OpenURL:     template.URL(s.OpenURL),
		ToastMillis: toast.Milliseconds(),
	}
}

// templateFuncs are available to every page. pathEscape keeps ids holding
// '/', '?', '#' or '%' inside a single route segment.
var templateFuncs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// Pages renders the storefront templates.
type Pages struct {
	sets map[string]*template.Template
}

func NewPages() (*Pages, error) {
	sets := map[string]*template.Template{}
	for _, name := range []string{PageCatalog, PageCart} {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		sets[name] = tmpl
	}
	return &Pages{sets: sets}, nil
}

// Render executes page into w. Output is buffered so a template error never
// leaves a half-written page.
func (p *Pages) Render(w io.Writer, page string, data PageData) error {
	tmpl, ok := p.sets[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

package dispatch

import (
	"html"
	"net/http"
	"strconv"

	"github.com/joeydtaylor/frontctl/pkg/core"
	"github.com/rohanthewiz/element"
)

const contentTypeHTML = "text/html;charset=UTF-8"

type page struct {
	Title string
	Body  element.Component
}

func (p page) Render(b *element.Builder) any {
	b.Html().R(
		b.Head().R(
			b.Title().T(p.Title),
		),
		b.Body().R(
			element.RenderComponents(b, p.Body),
		),
	)
	return nil
}

type notFoundBody struct{ URI string }

func (n notFoundBody) Render(b *element.Builder) any {
	b.H1().T("Unknown resource")
	b.P().R(
		b.T("The requested URL was not found: "),
		b.Strong().T(html.EscapeString(n.URI)),
	)
	return nil
}

type failureBody struct{ Path string }

func (f failureBody) Render(b *element.Builder) any {
	b.H1().T("Handler failure")
	b.P().R(
		b.T("The handler mapped to "),
		b.Strong().T(html.EscapeString(f.Path)),
		b.T(" could not complete the request."),
	)
	return nil
}

// reportBody lists every mapped URL, then what the last scan skipped and
// which keys were overwritten.
type reportBody struct{ t *core.Table }

func (r reportBody) Render(b *element.Builder) any {
	b.H1().T("All Mapped URLs")
	b.Table("border", "1").R(
		b.Tr().R(
			b.Th().T("URL"),
			b.Th().T("Supported"),
			b.Th().T("Class"),
			b.Th().T("Method"),
		),
		func() any {
			for _, rt := range r.t.Routes() {
				b.Tr().R(
					b.Td().T(html.EscapeString(rt.Key())),
					b.Td().T("Yes"),
					b.Td().T(html.EscapeString(rt.TypeName)),
					b.Td().T(html.EscapeString(rt.MethodName)),
				)
			}
			return nil
		}(),
	)

	skipped := r.t.Skipped()
	b.P().T("Skipped candidates: " + strconv.Itoa(len(skipped)))
	if len(skipped) > 0 {
		b.Ul().R(
			func() any {
				for _, s := range skipped {
					b.Li().T(html.EscapeString(s.Error()))
				}
				return nil
			}(),
		)
	}
	b.P().T("Overwritten keys: " + strconv.Itoa(len(r.t.Collisions())))
	if g := r.t.Generation(); g != "" {
		b.P().T("Generation: " + g)
	}
	return nil
}

func render(title string, body element.Component) string {
	b := element.NewBuilder()
	element.RenderComponents(b, page{Title: title, Body: body})
	return b.String()
}

func renderNotFound(uri string) string {
	return render("Resource Not Found", notFoundBody{URI: uri})
}

func renderFailure(path string) string {
	return render("Handler Failure", failureBody{Path: path})
}

func renderReport(t *core.Table) string {
	return render("URL Mappings", reportBody{t: t})
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

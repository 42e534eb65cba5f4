package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ChatEndpoint is where the page's chat widget posts transcripts.
const ChatEndpoint = "/api/mcp-chat"

// Renderer turns a State into the full HTML page.
type Renderer struct {
	catalog Catalog
	md      goldmark.Markdown
	tmpl    *template.Template
}

// NewRenderer parses the embedded templates against the embedded catalog.
func NewRenderer() (*Renderer, error) {
	return NewRendererWithCatalog(Default())
}

func NewRendererWithCatalog(c Catalog) (*Renderer, error) {
	r := &Renderer{
		catalog: c,
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"markdown": r.markdown,
		"inc":      func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Catalog returns the content the renderer was built with.
func (r *Renderer) Catalog() *Catalog {
	return &r.catalog
}

// markdown renders trusted catalog copy. Raw HTML in the source is escaped.
func (r *Renderer) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

type tabView struct {
	Title  string
	URL    string
	Active bool
}

type demoStepView struct {
	DemoStep
	Number  int
	Current bool
	Done    bool
}

type demoView struct {
	Title    string
	Subtitle string
	Steps    []demoStepView
	Last     bool
	NextURL  string
	CloseURL string
}

type pageView struct {
	Hero     Hero
	TourURL  string
	HomeURL  string
	Tabs     []tabView
	Section  string
	Body     template.HTML
	Demo     *demoView
	Chat     ChatCopy
	Endpoint string
	Footer   Footer
}

// Render writes the page for st.
func (r *Renderer) Render(w io.Writer, st State) error {
	body, err := r.RenderSection(st)
	if err != nil {
		return err
	}

	page := pageView{
		Hero:     r.catalog.Hero,
		TourURL:  st.StartTour().URL(),
		HomeURL:  DefaultState().URL(),
		Section:  st.Section.Slug(),
		Body:     body,
		Chat:     r.catalog.Chat,
		Endpoint: ChatEndpoint,
		Footer:   r.catalog.Footer,
	}
	for i, s := range allSections {
		page.Tabs = append(page.Tabs, tabView{
			Title:  r.catalog.Sections[i].Title,
			URL:    st.SelectSection(s).URL(),
			Active: s == st.Section,
		})
	}
	if st.DemoOpen {
		page.Demo = r.demo(st)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render layout: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderSection renders only the active section's body.
func (r *Renderer) RenderSection(st State) (template.HTML, error) {
	view, ok := sectionViews[st.Section]
	if !ok {
		return "", fmt.Errorf("no view for section %v", st.Section)
	}
	name, data := view(&r.catalog, st)
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) demo(st State) *demoView {
	d := r.catalog.Demo
	v := &demoView{
		Title:    d.Title,
		Subtitle: d.Subtitle,
		Last:     st.DemoStep >= len(d.Steps)-1,
		NextURL:  st.AdvanceDemo(len(d.Steps)).URL(),
		CloseURL: st.CloseDemo().URL(),
	}
	for i, s := range d.Steps {
		v.Steps = append(v.Steps, demoStepView{
			DemoStep: s,
			Number:   i + 1,
			Current:  i == st.DemoStep,
			Done:     i < st.DemoStep,
		})
	}
	return v
}

// StaticHandler serves the embedded CSS and JS. Mount it under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"lms-evaluation/internal/dashboard"
	"lms-evaluation/internal/form"
	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/scoring"
	"lms-evaluation/internal/summary"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{
	"form":      parsePage("form"),
	"dashboard": parsePage("dashboard"),
	"detail":    parsePage("detail"),
}

var funcs = template.FuncMap{
	"score":  scoring.Format,
	"bucket": func(v float64) string { return scoring.BucketFor(v).Color() },
}

func parsePage(name string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(funcs).
		ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
}

// render buffers the page so a template error never sends half a page.
func (s *Server) render(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := pages[name].Execute(&buf, data); err != nil {
		s.Logger.Error("render page", slog.String("page", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

type formItem struct {
	Description   string
	ScoreField    string
	CommentsField string
	Score         int
	Comments      string
}

type formCategory struct {
	ID      string
	Name    string
	Weight  string
	Average float64
	Items   []formItem
}

type formPage struct {
	Nav          string
	Draft        *form.Draft
	Platforms    []string
	Other        string
	ShowOther    bool
	Categories   []formCategory
	Overall      float64
	Error        string
	ScoreChoices []int
}

func newFormPage(d *form.Draft, errMsg string) formPage {
	r := d.Rubric()
	live := d.Live()
	p := formPage{
		Nav:          "form",
		Draft:        d,
		Platforms:    r.Platforms,
		Other:        rubric.OtherPlatform,
		ShowOther:    d.Platform == rubric.OtherPlatform,
		Overall:      live.Overall,
		Error:        errMsg,
		ScoreChoices: []int{1, 2, 3, 4, 5},
	}
	for _, c := range r.Categories {
		fc := formCategory{
			ID:      c.ID,
			Name:    c.Name,
			Weight:  summary.Percent(c.Weight),
			Average: live.Category(c.ID).Average,
		}
		for _, it := range c.Items {
			got, _ := d.Scores.Item(c.ID, it.ID)
			v, _ := got.Score.Value()
			fc.Items = append(fc.Items, formItem{
				Description:   it.Description,
				ScoreField:    form.ScoreField(c.ID, it.ID),
				CommentsField: form.CommentsField(c.ID, it.ID),
				Score:         v,
				Comments:      got.Comments,
			})
		}
		p.Categories = append(p.Categories, fc)
	}
	return p
}

type dashboardPage struct {
	Nav             string
	Rows            []dashboard.Row
	CopiedAckMillis int64
}

type detailPage struct {
	Nav    string
	Detail dashboard.Detail
}

func (p formPage) PlatformSelected(name string) bool { return p.Draft.Platform == name }

func (i formItem) Selected(v int) bool { return i.Score == v }

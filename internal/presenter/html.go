package presenter

import (
	"html/template"
	"io"

	"github.com/manasakl/cowin-notify/internal/entities"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Let's get vaccinated!</title>
</head>
<body>
<h1>Let's get vaccinated!</h1>
<p class="info">The CoWIN APIs are geo-fenced so sometimes you may not see an output! Please try after sometime</p>
<form method="post" action="/check">
  <label>Select Date Range
    <input type="range" name="days" min="0" max="100" value="{{.Query.Days}}">
  </label>
  <label>Pincode
    <input type="text" name="pincode" value="{{.Query.Pincode}}">
  </label>
  <button type="submit">Check</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Summary}}
{{if .NoData}}<p class="error" id="empty">{{$.NoDataMessage}}</p>{{else}}
<table id="slots">
  <thead><tr>{{range $.Headers}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>{{range $.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody>
</table>
{{end}}
<p class="counts">Dates with rows: {{.Counts.Rows}}, empty: {{.Counts.NoData}}, failed: {{.Counts.Errors}}</p>
{{with .Dispatch}}<p class="dispatch">{{.Body}} (delivered: {{len .Succeeded}}, failed: {{len .Failed}})</p>{{end}}
{{end}}
</body>
</html>
`))

// Page is the data behind the form page
type Page struct {
	Query   entities.Query
	Error   string
	Summary *entities.RunSummary
}

type pageView struct {
	Page
	NoDataMessage string
	Headers       []string
	Rows          [][]string
}

// HTMLPresenter renders the input form and, once a run finished, its table
type HTMLPresenter struct{}

func NewHTMLPresenter() *HTMLPresenter {
	return &HTMLPresenter{}
}

func (p *HTMLPresenter) Render(w io.Writer, page Page) error {
	view := pageView{Page: page, NoDataMessage: NoDataMessage, Headers: entities.Labels()}
	if page.Summary != nil {
		for _, r := range page.Summary.Table {
			view.Rows = append(view.Rows, r.Cells())
		}
	}
	return pageTemplate.Execute(w, view)
}

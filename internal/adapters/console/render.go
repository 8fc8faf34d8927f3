package console

import (
	"fmt"
	"io"
	"property-map/internal/core/domain"
	"sort"
	"strings"
)

// render печатает снимок экрана в текстовом виде.
func render(out io.Writer, view domain.SessionView) {
	fmt.Fprintf(out, "mode: %s", view.Mode)
	if view.SelectedID != nil {
		fmt.Fprintf(out, "  selected: %s", *view.SelectedID)
	}
	fmt.Fprintf(out, "  page %d/%d", view.CurrentPage, view.TotalPages)
	fmt.Fprintf(out, "  map: %.4f,%.4f z%d\n", view.Viewport.Latitude, view.Viewport.Longitude, view.Viewport.Zoom)

	if view.Error != "" {
		fmt.Fprintf(out, "! %s\n", view.Error)
	}
	if view.EmptyMessage != "" {
		fmt.Fprintln(out, view.EmptyMessage)
	}
	for _, c := range view.Cards {
		marker := " "
		if c.Selected {
			marker = "*"
		}
		fmt.Fprintf(out, "%s [%s] %-10s %-30s %14s  %s\n", marker, c.ID, c.TypeLabel, c.Name, c.PriceLabel, c.Address)
	}
	if len(view.Clusters) > 0 {
		fmt.Fprintf(out, "clusters: %d\n", len(view.Clusters))
	}
	if view.Pending != nil {
		fmt.Fprintf(out, "pending: %s\n", view.Pending.Label)
	}
	if view.Form != nil {
		renderForm(out, view.Form)
	}
}

func renderForm(out io.Writer, form *domain.FormView) {
	fmt.Fprintf(out, "-- %s --\n", form.Title)
	names := make([]string, 0, len(form.Fields))
	for name := range form.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-14s %s\n", name+":", form.Fields[name])
	}
	if len(form.ImageURLs) > 0 {
		fmt.Fprintf(out, "  %-14s %s\n", "imageUrls:", strings.Join(form.ImageURLs, ", "))
	}
}

const helpText = `commands:
  list                         show properties
  search field=value ...       search (type, minPrice, maxPrice, minArea, maxArea, bedrooms, bathrooms)
  clear                        reset filters and reload
  add                          start placing a new property
  click <lat> <lng>            click the map
  set <field> <value>          fill the open form
  submit                       submit the open form
  cancel                       leave placement or editing
  edit <id>                    edit a property
  select <id>                  select a marker and centre the map on it
  delete <id>                  delete a property (asks for confirmation)
  page <n>                     switch page
  quit                         exit
`

package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/creditmap/internal/dashboard"
)

// SVGHandler serves one widget. With widget empty the name comes from the
// {kind} route parameter, e.g. /gauges/loan.svg.
func SVGHandler(b *dashboard.Board, widget dashboard.Widget) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := widget
		if name == "" {
			name = dashboard.Widget(chi.URLParam(r, "kind"))
			if name == dashboard.WidgetMap || name == dashboard.WidgetScatter {
				http.Error(w, "not a gauge", http.StatusNotFound)
				return
			}
		}
		var buf bytes.Buffer
		if err := b.WriteSVG(&buf, name); err != nil {
			if errors.Is(err, dashboard.ErrUnknownWidget) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}

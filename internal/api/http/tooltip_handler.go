package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/tooltip"
)

// POST /api/tooltip  {"widget":"map","state":{...},"event":{"kind":"enter","target":"Ohio","x":1,"y":2}}
// The client holds the tooltip state and sends it back with every event.
func TooltipHandler(b *dashboard.Board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Widget dashboard.Widget `json:"widget"`
			State  tooltip.State    `json:"state"`
			Event  tooltip.Event    `json:"event"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		next, effects, err := b.Tooltip(req.Widget, req.State, req.Event)
		if err != nil {
			if errors.Is(err, dashboard.ErrUnknownWidget) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if effects == nil {
			effects = []tooltip.Effect{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"state": next, "effects": effects})
	}
}

// Package tooltip is the hover state machine shared by every widget. It is a
// pure function of (state, event) so it can run server-side or be replayed in
// tests without a rendering surface.
package tooltip

// Kind is a pointer event kind.
type Kind string

const (
	Enter Kind = "enter"
	Move  Kind = "move"
	Leave Kind = "leave"
)

// Event is a pointer event over a bound element. Target is the element's
// datum key (state name, gauge segment label).
type Event struct {
	Kind   Kind    `json:"kind"`
	Target string  `json:"target"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// State is either hidden (zero value) or visible with content at a position.
type State struct {
	Visible bool    `json:"visible"`
	Target  string  `json:"target,omitempty"`
	Content string  `json:"content,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// Hidden is the initial state.
var Hidden = State{}

// EffectKind is an instruction for the rendering surface.
type EffectKind string

const (
	Show     EffectKind = "show"
	Position EffectKind = "position"
	Hide     EffectKind = "hide"
)

type Effect struct {
	Kind    EffectKind `json:"kind"`
	Content string     `json:"content,omitempty"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
}

// ContentFunc resolves the tooltip body for a target. ok=false means the
// target has nothing to show and the tooltip stays (or becomes) hidden.
type ContentFunc func(target string) (content string, ok bool)

// Offset is added to the cursor position.
type Offset struct {
	DX, DY float64
}

var (
	MapOffset   = Offset{DX: 10, DY: -28}
	GaugeOffset = Offset{DX: 10, DY: -20}
)

// Machine binds a content resolver and cursor offset.
type Machine struct {
	Content ContentFunc
	Offset  Offset
}

// Step applies one event. Entering a new element while visible replaces the
// content, it never stacks a second tooltip. Move only repositions; Leave
// always hides.
func (m Machine) Step(s State, e Event) (State, []Effect) {
	x, y := e.X+m.Offset.DX, e.Y+m.Offset.DY
	switch e.Kind {
	case Enter:
		content, ok := "", false
		if m.Content != nil {
			content, ok = m.Content(e.Target)
		}
		if !ok {
			if s.Visible {
				return Hidden, []Effect{{Kind: Hide}}
			}
			return Hidden, nil
		}
		next := State{Visible: true, Target: e.Target, Content: content, X: x, Y: y}
		return next, []Effect{{Kind: Show, Content: content, X: x, Y: y}}
	case Move:
		if !s.Visible {
			return s, nil
		}
		s.X, s.Y = x, y
		return s, []Effect{{Kind: Position, X: x, Y: y}}
	case Leave:
		if !s.Visible {
			return Hidden, nil
		}
		return Hidden, []Effect{{Kind: Hide}}
	default:
		return s, nil
	}
}

// Package view holds the dashboard widgets. Each widget is a view-controller
// that owns one scene subtree: it is built once from a config struct and
// redrawn through Update, which always replaces the owned subtree wholesale.
package view

import (
	"errors"
	"fmt"

	"github.com/mind-engage/creditmap/internal/scale"
	"github.com/mind-engage/creditmap/internal/scene"
)

// ErrDestroyed is returned by Update after Destroy.
var ErrDestroyed = errors.New("view: widget destroyed")

// Widget is the part every view-controller shares.
type Widget interface {
	Root() *scene.Node
	Destroy()
}

// base owns the root node and the destroyed flag.
type base struct {
	root      *scene.Node
	destroyed bool
}

func newBase(width, height float64) base {
	return base{root: scene.El("svg",
		scene.F("width", width),
		scene.F("height", height),
		scene.A("viewBox", fmt.Sprintf("0 0 %s %s", num(width), num(height))),
	)}
}

func (b *base) Root() *scene.Node { return b.root }

// Destroy drops the owned subtree. The root stays valid but empty.
func (b *base) Destroy() {
	b.root.Clear()
	b.destroyed = true
}

// reset clears the owned subtree ahead of a redraw.
func (b *base) reset() error {
	if b.destroyed {
		return ErrDestroyed
	}
	b.root.Clear()
	return nil
}

func num(v float64) string { return scene.F("", v).Value }

func parseColors(hexes ...string) ([]scale.Color, error) {
	out := make([]scale.Color, len(hexes))
	for i, h := range hexes {
		c, err := scale.ParseHex(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

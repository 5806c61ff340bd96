package view

import (
	"github.com/mind-engage/creditmap/internal/scale"
	"github.com/mind-engage/creditmap/internal/scene"
)

type tickFormat func(float64) string

// axisBottom draws a horizontal axis with ticks below the line, in the
// layout d3's axisBottom produces.
func axisBottom(s *scale.Linear, count int, format tickFormat) *scene.Node {
	r0, r1 := s.Range()
	g := scene.El("g", scene.A("class", "axis axis-x"),
		scene.A("fill", "none"), scene.A("font-size", "10"), scene.A("text-anchor", "middle"))
	g.Append(scene.El("path", scene.A("class", "domain"), scene.A("stroke", "currentColor"),
		scene.A("d", "M"+num(r0)+",6V0H"+num(r1)+"V6")))
	for _, v := range s.Ticks(count) {
		g.Append(scene.El("g", scene.A("class", "tick"),
			scene.A("transform", "translate("+num(s.Map(v))+",0)")).Append(
			scene.El("line", scene.A("stroke", "currentColor"), scene.F("y2", 6)),
			scene.El("text", scene.A("fill", "currentColor"), scene.F("y", 9), scene.A("dy", "0.71em")).
				WithText(format(v)),
		))
	}
	return g
}

func axisLeft(s *scale.Linear, count int, format tickFormat) *scene.Node {
	r0, r1 := s.Range()
	g := scene.El("g", scene.A("class", "axis axis-y"),
		scene.A("fill", "none"), scene.A("font-size", "10"), scene.A("text-anchor", "end"))
	g.Append(scene.El("path", scene.A("class", "domain"), scene.A("stroke", "currentColor"),
		scene.A("d", "M-6,"+num(r0)+"H0V"+num(r1)+"H-6")))
	for _, v := range s.Ticks(count) {
		g.Append(scene.El("g", scene.A("class", "tick"),
			scene.A("transform", "translate(0,"+num(s.Map(v))+")")).Append(
			scene.El("line", scene.A("stroke", "currentColor"), scene.F("x2", -6)),
			scene.El("text", scene.A("fill", "currentColor"), scene.F("x", -9), scene.A("dy", "0.32em")).
				WithText(format(v)),
		))
	}
	return g
}

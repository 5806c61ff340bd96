package scene

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSVG(t *testing.T) {
	root := El("svg", F("width", 960), F("height", 600.5)).Append(
		El("path", A("class", "state"), A("d", "M0,0Z")).Append(El("title").WithText(`A & "B"`)),
		El("circle", F("r", 4)),
	)
	want := `<svg xmlns="http://www.w3.org/2000/svg" width="960" height="600.5">` +
		`<path class="state" d="M0,0Z"><title>A &amp; &#34;B&#34;</title></path>` +
		`<circle r="4"/></svg>`
	assert.Equal(t, want, root.String())
}

func TestRemoveClassAndCount(t *testing.T) {
	g := El("g")
	for i := 0; i < 3; i++ {
		g.Append(El("circle", A("class", "data-point approved")))
	}
	g.Append(El("g", A("class", "axis")))

	assert.Equal(t, 3, g.Count("data-point"))
	assert.Equal(t, 3, g.RemoveClass("data-point"))
	assert.Equal(t, 0, g.Count("data-point"))
	require.Len(t, g.Children, 1)
	assert.True(t, g.Children[0].HasClass("axis"))
}

func TestSetAndFind(t *testing.T) {
	root := El("svg").Append(El("g", A("id", "legend")))
	root.Find("legend").Set("transform", "translate(1,2)").Set("transform", "translate(3,4)")
	assert.Equal(t, "translate(3,4)", root.Find("legend").Get("transform"))
	assert.Nil(t, root.Find("missing"))
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{0: "0", -0.001: "0", 1.5: "1.5", 2.25: "2.25", 3.333: "3.33", 100: "100"}
	for in, want := range cases {
		assert.Equal(t, want, F("x", in).Value, "input %v", in)
	}
}

func TestIdenticalTreesSerializeIdentically(t *testing.T) {
	build := func() *Node {
		return El("svg", F("width", 10)).Append(El("rect", A("fill", "#ccc")))
	}
	a, b := build(), build()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("trees differ (-a +b):\n%s", diff)
	}
	assert.Equal(t, a.String(), b.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteSVGReportsWriterError(t *testing.T) {
	assert.Error(t, El("svg").WriteSVG(failingWriter{}))
}

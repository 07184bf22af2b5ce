package transform

import (
	"math"
	"slices"

	"oss.terrastruct.com/d2/lib/geo"

	"github.com/matzehuels/erdlayout/pkg/dag"
)

// CoordinateOptions controls node spacing.
type CoordinateOptions struct {
	// HorizontalGap is the minimum free space between neighbouring nodes of
	// a level.
	HorizontalGap float64
	// VerticalGap is the free space between two levels.
	VerticalGap float64
}

// AssignCoordinates computes the centre point of every node. The graph must
// be proper and ordered. The deepest level becomes the top row; level 0 is
// drawn last. The leftmost node edge sits at x = 0 and the top row at y = 0.
//
// # Vertical Placement
//
// A row is as tall as its tallest node and rows are VerticalGap apart.
// Nodes are centred vertically inside their row.
//
// # Horizontal Placement
//
// x coordinates follow Brandes and Köpf, "Fast and Simple Horizontal
// Coordinate Assignment":
//  1. mark type 1 conflicts, where a segment between two dummies crosses
//     a segment with a real endpoint
//  2. for each of the four directions (upper-left, upper-right, lower-left,
//     lower-right) align every node with a median neighbour into vertical
//     blocks, skipping marked segments and alignments that would cross
//  3. compact the blocks horizontally, keeping half the widths of both
//     neighbours plus HorizontalGap between them
//  4. shift the four candidates to the narrowest one and take the average
//     of the two median candidates of every node
//
// A final left-to-right sweep per level enforces the minimum separation,
// which the class shifting of step 3 does not always guarantee.
//
// All scratch state (roots, alignment, sinks, shifts, candidates) lives in a
// table allocated per call and indexed by node sequence.
func AssignCoordinates(g *dag.Graph, opts CoordinateOptions) map[*dag.Node]*geo.Point {
	levels := g.Levels()
	centers := make(map[*dag.Node]*geo.Point, g.NodeCount())
	if len(levels) == 0 {
		return centers
	}

	ws := newWorkspace(g, levels, opts.HorizontalGap)
	xs := ws.horizontal()
	ys := verticalCenters(levels, opts.VerticalGap)

	for i, level := range levels {
		for _, n := range level {
			centers[n] = geo.NewPoint(xs[n.Seq()], ys[i])
		}
	}
	return centers
}

func verticalCenters(levels [][]*dag.Node, gap float64) []float64 {
	ys := make([]float64, len(levels))
	top := 0.0
	for i, level := range levels {
		height := 0.0
		for _, n := range level {
			height = max(height, n.Bounds().Height)
		}
		ys[i] = top + height/2
		top += height + gap
	}
	return ys
}

// workspace is the per-run scratch table. Every slice is indexed by node
// sequence number.
type workspace struct {
	layers [][]int // top to bottom, left to right
	in     [][]int
	out    [][]int
	width  []float64
	dummy  []bool
	gap    float64

	conflicts map[[2]int]bool

	// Per-direction state, reset by place.
	pos   []int
	layer []int
	root  []int
	align []int
	sink  []int
	shift []float64
	x     []float64
	done  []bool
}

func newWorkspace(g *dag.Graph, levels [][]*dag.Node, gap float64) *workspace {
	n := g.NodeCount()
	ws := &workspace{
		layers:    make([][]int, len(levels)),
		in:        make([][]int, n),
		out:       make([][]int, n),
		width:     make([]float64, n),
		dummy:     make([]bool, n),
		gap:       gap,
		conflicts: make(map[[2]int]bool),
		pos:       make([]int, n),
		layer:     make([]int, n),
		root:      make([]int, n),
		align:     make([]int, n),
		sink:      make([]int, n),
		shift:     make([]float64, n),
		x:         make([]float64, n),
		done:      make([]bool, n),
	}
	for i, level := range levels {
		ws.layers[i] = make([]int, len(level))
		for j, node := range level {
			ws.layers[i][j] = node.Seq()
		}
	}
	for _, node := range g.Nodes() {
		v := node.Seq()
		ws.width[v] = node.Bounds().Width
		ws.dummy[v] = node.IsDummy()
		for _, head := range g.OutgoingNeighbours(node) {
			ws.out[v] = append(ws.out[v], head.Seq())
			ws.in[head.Seq()] = append(ws.in[head.Seq()], v)
		}
	}
	return ws
}

func segmentKey(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

func (ws *workspace) setPositions(layers [][]int) {
	for l, layer := range layers {
		for i, v := range layer {
			ws.pos[v] = i
			ws.layer[v] = l
		}
	}
}

// markConflicts marks segments with a real endpoint that cross an inner
// segment (one whose endpoints are both dummies).
func (ws *workspace) markConflicts() {
	ws.setPositions(ws.layers)
	for i := 0; i+1 < len(ws.layers); i++ {
		upper, lower := ws.layers[i], ws.layers[i+1]
		k0, l := 0, 0
		for l1, v := range lower {
			inner := -1
			if ws.dummy[v] {
				for _, u := range ws.in[v] {
					if ws.dummy[u] {
						inner = u
						break
					}
				}
			}
			if l1 != len(lower)-1 && inner < 0 {
				continue
			}
			k1 := len(upper) - 1
			if inner >= 0 {
				k1 = ws.pos[inner]
			}
			for ; l <= l1; l++ {
				w := lower[l]
				for _, u := range ws.in[w] {
					if ws.dummy[u] && ws.dummy[w] {
						continue
					}
					if k := ws.pos[u]; k < k0 || k > k1 {
						ws.conflicts[segmentKey(u, w)] = true
					}
				}
			}
			k0 = k1
		}
	}
}

// horizontal runs the four alignments and combines them.
func (ws *workspace) horizontal() []float64 {
	ws.markConflicts()

	var candidates [4][]float64
	for k, dir := range []struct{ down, right bool }{
		{true, false}, {true, true}, {false, false}, {false, true},
	} {
		layers := make([][]int, len(ws.layers))
		for i, layer := range ws.layers {
			layers[i] = slices.Clone(layer)
			if dir.right {
				slices.Reverse(layers[i])
			}
		}
		upper := ws.in
		if !dir.down {
			slices.Reverse(layers)
			upper = ws.out
		}
		x := ws.place(layers, upper)
		if dir.right {
			for i := range x {
				x[i] = -x[i]
			}
		}
		candidates[k] = x
	}

	return ws.combine(candidates)
}

// place aligns blocks and compacts them for one direction. layers is given
// in processing order and upper selects the neighbours in the previous
// layer.
func (ws *workspace) place(layers [][]int, upper [][]int) []float64 {
	ws.setPositions(layers)
	for v := range ws.root {
		ws.root[v] = v
		ws.align[v] = v
		ws.sink[v] = v
		ws.shift[v] = math.Inf(1)
		ws.x[v] = 0
		ws.done[v] = false
	}

	// Vertical alignment.
	for _, layer := range layers {
		r := -1
		for _, v := range layer {
			ups := slices.Clone(upper[v])
			if len(ups) == 0 {
				continue
			}
			slices.SortFunc(ups, func(a, b int) int { return ws.pos[a] - ws.pos[b] })
			d := len(ups)
			for _, m := range medians(d) {
				if ws.align[v] != v {
					break
				}
				u := ups[m]
				if !ws.conflicts[segmentKey(u, v)] && r < ws.pos[u] {
					ws.align[u] = v
					ws.root[v] = ws.root[u]
					ws.align[v] = ws.root[v]
					r = ws.pos[u]
				}
			}
		}
	}

	// Horizontal compaction.
	for _, layer := range layers {
		for _, v := range layer {
			if ws.root[v] == v {
				ws.placeBlock(v, layers)
			}
		}
	}

	x := make([]float64, len(ws.x))
	for _, layer := range layers {
		for _, v := range layer {
			r := ws.root[v]
			x[v] = ws.x[r]
			if s := ws.shift[ws.sink[r]]; !math.IsInf(s, 1) {
				x[v] += s
			}
		}
	}
	return x
}

func medians(d int) []int {
	lo, hi := (d-1)/2, d/2
	if lo == hi {
		return []int{lo}
	}
	return []int{lo, hi}
}

func (ws *workspace) placeBlock(v int, layers [][]int) {
	if ws.done[v] {
		return
	}
	ws.done[v] = true
	ws.x[v] = 0
	w := v
	for {
		if p := ws.pos[w]; p > 0 {
			pred := layers[ws.layer[w]][p-1]
			u := ws.root[pred]
			ws.placeBlock(u, layers)
			if ws.sink[v] == v {
				ws.sink[v] = ws.sink[u]
			}
			delta := (ws.width[pred]+ws.width[w])/2 + ws.gap
			if ws.sink[v] != ws.sink[u] {
				ws.shift[ws.sink[u]] = min(ws.shift[ws.sink[u]], ws.x[v]-ws.x[u]-delta)
			} else {
				ws.x[v] = max(ws.x[v], ws.x[u]+delta)
			}
		}
		w = ws.align[w]
		if w == v {
			break
		}
	}
}

// combine aligns the candidates to the narrowest one, averages the two
// medians per node, then enforces separation and moves the left edge to 0.
func (ws *workspace) combine(candidates [4][]float64) []float64 {
	var lo, hi [4]float64
	narrowest := 0
	for k, x := range candidates {
		lo[k], hi[k] = math.Inf(1), math.Inf(-1)
		for _, layer := range ws.layers {
			for _, v := range layer {
				lo[k] = min(lo[k], x[v]-ws.width[v]/2)
				hi[k] = max(hi[k], x[v]+ws.width[v]/2)
			}
		}
		if hi[k]-lo[k] < hi[narrowest]-lo[narrowest] {
			narrowest = k
		}
	}
	for k, x := range candidates {
		delta := lo[narrowest] - lo[k]
		if k%2 == 1 {
			delta = hi[narrowest] - hi[k]
		}
		for i := range x {
			x[i] += delta
		}
	}

	x := make([]float64, len(ws.width))
	for _, layer := range ws.layers {
		for _, v := range layer {
			vals := []float64{candidates[0][v], candidates[1][v], candidates[2][v], candidates[3][v]}
			slices.Sort(vals)
			x[v] = (vals[1] + vals[2]) / 2
		}
	}

	left := math.Inf(1)
	for _, layer := range ws.layers {
		for j, v := range layer {
			if j > 0 {
				prev := layer[j-1]
				x[v] = max(x[v], x[prev]+(ws.width[prev]+ws.width[v])/2+ws.gap)
			}
			left = min(left, x[v]-ws.width[v]/2)
		}
	}
	for i := range x {
		x[i] -= left
	}
	return x
}

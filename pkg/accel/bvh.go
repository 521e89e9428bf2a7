// Package accel implements the scene's ray-intersection acceleration
// structure: a linearized bounding volume hierarchy built with the
// surface-area heuristic, falling back to a fast midpoint split for the
// small nodes where SAH's binning overhead isn't worth it.
package accel

import (
	"sort"

	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/shape"
)

// Primitive pairs a Shape with the material/light the scene resolves it
// against; accel only needs Bounds()/Intersect() and treats Material/Light
// as opaque payload (any) carried through to the hit result so this
// package never has to import pkg/material or pkg/light.
type Primitive struct {
	Shape    shape.Shape
	Material any
	Light    any
}

// nBuckets is the number of SAH buckets per axis, a standard choice
// (PBRT uses 12) that balances split quality against build time.
const nBuckets = 12

// sahLeafThreshold is the primitive count below which buckets stop paying
// for themselves and the builder falls back to a single fast midpoint split.
const sahLeafThreshold = 12

// maxLeafPrimitives is the node size at or below which the builder emits a
// leaf, and the leaf size the half-split of coincident centroids recurses
// down to. A node whose split leaves one side empty becomes a leaf when it
// holds at most maxLeafPrimitives*4 primitives.
const maxLeafPrimitives = 4

type buildNode struct {
	bounds      core.AABB
	left, right *buildNode
	primitives  []int
	splitAxis   int
}

// BVH is a linearized, stackless-traversal bounding volume hierarchy.
type BVH struct {
	primitives []Primitive // original, scene-supplied order
	ordered    []int       // primitive indices reordered by the build, indexed by linearNode.primitivesStart
	nodes      []linearNode
}

// linearNode is the flattened array representation: leaves store a
// primitive offset/count, interior nodes store the second child's index
// (the first child always immediately follows its parent).
type linearNode struct {
	bounds          core.AABB
	primitivesStart int
	primitiveCount  int
	secondChild     int
	axis            int
}

// Build constructs a BVH over the given primitives using a 12-bucket SAH
// split at every node with enough primitives to bin usefully, and a fast
// midpoint split below that threshold.
func Build(primitives []Primitive) *BVH {
	b := &BVH{}
	if len(primitives) == 0 {
		return b
	}
	indices := make([]int, len(primitives))
	bounds := make([]core.AABB, len(primitives))
	for i, p := range primitives {
		indices[i] = i
		bounds[i] = p.Shape.Bounds()
	}
	b.primitives = primitives

	root := buildRecursive(indices, bounds)
	b.nodes = make([]linearNode, 0, countNodes(root))
	b.ordered = make([]int, 0, len(primitives))
	flatten(root, &b.nodes, &b.ordered)
	return b
}

func countNodes(n *buildNode) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.left) + countNodes(n.right)
}

func boundsOf(indices []int, bounds []core.AABB) core.AABB {
	box := bounds[indices[0]]
	for _, i := range indices[1:] {
		box = box.Union(bounds[i])
	}
	return box
}

func centroidBoundsOf(indices []int, bounds []core.AABB) core.AABB {
	c := bounds[indices[0]].Center()
	box := core.NewAABB(c, c)
	for _, i := range indices[1:] {
		cc := bounds[i].Center()
		box = box.Union(core.NewAABB(cc, cc))
	}
	return box
}

func axisExtent(box core.AABB, axis int) (lo, hi float64) {
	switch axis {
	case 0:
		return box.Min.X, box.Max.X
	case 1:
		return box.Min.Y, box.Max.Y
	default:
		return box.Min.Z, box.Max.Z
	}
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func buildRecursive(indices []int, bounds []core.AABB) *buildNode {
	nodeBounds := boundsOf(indices, bounds)

	if len(indices) <= maxLeafPrimitives && len(indices) <= sahLeafThreshold {
		return &buildNode{bounds: nodeBounds, primitives: indices}
	}

	centroidBounds := centroidBoundsOf(indices, bounds)
	axis := centroidBounds.LongestAxis()
	lo, hi := axisExtent(centroidBounds, axis)
	if hi-lo < 1e-12 {
		if len(indices) <= maxLeafPrimitives {
			return &buildNode{bounds: nodeBounds, primitives: indices}
		}
		mid := len(indices) / 2
		return &buildNode{
			bounds:    nodeBounds,
			splitAxis: axis,
			left:      buildRecursive(indices[:mid], bounds),
			right:     buildRecursive(indices[mid:], bounds),
		}
	}

	var left, right []int
	if len(indices) < sahLeafThreshold {
		left, right = medianSplit(indices, bounds, axis, (lo+hi)/2)
	} else {
		var ok bool
		left, right, ok = sahSplit(indices, bounds, nodeBounds, axis, lo, hi)
		if !ok {
			left, right = medianSplit(indices, bounds, axis, (lo+hi)/2)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		if len(indices) <= maxLeafPrimitives*4 {
			return &buildNode{bounds: nodeBounds, primitives: indices}
		}
		mid := len(indices) / 2
		sorted := append([]int(nil), indices...)
		sort.Slice(sorted, func(i, j int) bool {
			return axisValue(bounds[sorted[i]].Center(), axis) < axisValue(bounds[sorted[j]].Center(), axis)
		})
		left, right = sorted[:mid], sorted[mid:]
	}

	return &buildNode{
		bounds:    nodeBounds,
		splitAxis: axis,
		left:      buildRecursive(left, bounds),
		right:     buildRecursive(right, bounds),
	}
}

// medianSplit partitions indices by whether their centroid falls below
// splitPos along axis (callers pass the midpoint of the centroid extent),
// the fallback for small nodes and for nodes where SAH finds no split.
func medianSplit(indices []int, bounds []core.AABB, axis int, splitPos float64) (left, right []int) {
	for _, i := range indices {
		if axisValue(bounds[i].Center(), axis) < splitPos {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

type bucketInfo struct {
	count  int
	bounds core.AABB
	valid  bool
}

// sahSplit bins primitives into nBuckets along axis by centroid position,
// evaluates the surface-area-heuristic cost of every partition boundary,
// and returns the best split found. ok=false when the best partition leaves
// one side empty, or when a node of at most maxLeafPrimitives primitives
// has no split cheaper than its leaf cost.
func sahSplit(indices []int, bounds []core.AABB, nodeBounds core.AABB, axis int, lo, hi float64) (left, right []int, ok bool) {
	var buckets [nBuckets]bucketInfo
	bucketOf := func(i int) int {
		b := int(float64(nBuckets) * (axisValue(bounds[i].Center(), axis) - lo) / (hi - lo))
		if b < 0 {
			b = 0
		}
		if b >= nBuckets {
			b = nBuckets - 1
		}
		return b
	}

	for _, i := range indices {
		b := bucketOf(i)
		buckets[b].count++
		if !buckets[b].valid {
			buckets[b].bounds = bounds[i]
			buckets[b].valid = true
		} else {
			buckets[b].bounds = buckets[b].bounds.Union(bounds[i])
		}
	}

	var cost [nBuckets - 1]float64
	for splitIdx := 0; splitIdx < nBuckets-1; splitIdx++ {
		var b0, b1 core.AABB
		count0, count1 := 0, 0
		have0, have1 := false, false
		for j := 0; j <= splitIdx; j++ {
			if !buckets[j].valid {
				continue
			}
			if !have0 {
				b0, have0 = buckets[j].bounds, true
			} else {
				b0 = b0.Union(buckets[j].bounds)
			}
			count0 += buckets[j].count
		}
		for j := splitIdx + 1; j < nBuckets; j++ {
			if !buckets[j].valid {
				continue
			}
			if !have1 {
				b1, have1 = buckets[j].bounds, true
			} else {
				b1 = b1.Union(buckets[j].bounds)
			}
			count1 += buckets[j].count
		}
		sa0, sa1 := 0.0, 0.0
		if have0 {
			sa0 = b0.SurfaceArea()
		}
		if have1 {
			sa1 = b1.SurfaceArea()
		}
		cost[splitIdx] = 0.125 + (float64(count0)*sa0+float64(count1)*sa1)/nodeBounds.SurfaceArea()
	}

	minCost := cost[0]
	minSplit := 0
	for i := 1; i < len(cost); i++ {
		if cost[i] < minCost {
			minCost = cost[i]
			minSplit = i
		}
	}

	leafCost := float64(len(indices))
	if len(indices) <= maxLeafPrimitives && minCost >= leafCost {
		return nil, nil, false
	}

	for _, i := range indices {
		if bucketOf(i) <= minSplit {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return nil, nil, false
	}
	return left, right, true
}

// flatten walks the recursive build tree depth-first, appending to nodes
// and ordered so that, for any interior node, its first child is always
// the very next entry in nodes (stackless traversal relies on this to
// descend without recording a left-child index).
func flatten(n *buildNode, nodes *[]linearNode, ordered *[]int) int {
	idx := len(*nodes)
	*nodes = append(*nodes, linearNode{bounds: n.bounds})

	if n.primitives != nil {
		start := len(*ordered)
		*ordered = append(*ordered, n.primitives...)
		(*nodes)[idx].primitivesStart = start
		(*nodes)[idx].primitiveCount = len(n.primitives)
		return idx
	}

	flatten(n.left, nodes, ordered)
	secondChild := flatten(n.right, nodes, ordered)
	(*nodes)[idx].secondChild = secondChild
	(*nodes)[idx].axis = n.splitAxis
	(*nodes)[idx].primitiveCount = 0
	return idx
}

package accel

import (
	"github.com/df07/go-photoncore/pkg/core"
	"github.com/df07/go-photoncore/pkg/shape"
)

// maxTraversalStack bounds the explicit index stack traversal uses; a
// SAH-built tree over any scene this renderer would plausibly load stays
// far shallower than this, so overflow is treated as evidence of a
// malformed tree rather than something to handle gracefully.
const maxTraversalStack = 64

// Intersect finds the closest primitive hit within (tMin,tMax), returning
// the surface interaction, the hit primitive, and whether anything was hit.
// Traversal is stackless aside from the explicit index array: the near
// child (by ray direction sign) is visited first so an early exact hit
// prunes the far subtree's bounding test for free.
func (b *BVH) Intersect(ray core.Ray, tMin, tMax float64) (*shape.SurfaceInteraction, *Primitive, bool) {
	if len(b.nodes) == 0 {
		return nil, nil, false
	}
	rs := core.NewRaySign(ray.Direction)

	var closest *shape.SurfaceInteraction
	var closestPrim *Primitive
	closestT := tMax

	var stack [maxTraversalStack]int
	sp := 0
	current := 0

	for {
		node := &b.nodes[current]
		if node.bounds.FastIntersect(ray, closestT, rs) {
			if node.primitiveCount > 0 {
				for i := 0; i < node.primitiveCount; i++ {
					primIdx := b.ordered[node.primitivesStart+i]
					prim := &b.primitives[primIdx]
					if si, ok := prim.Shape.Intersect(ray, tMin, closestT); ok {
						closest = si
						closestPrim = prim
						closestT = si.T
					}
				}
				if sp == 0 {
					break
				}
				sp--
				current = stack[sp]
				continue
			}

			first, second := current+1, node.secondChild
			if rs.Sign[node.axis] == 1 {
				first, second = second, first
			}
			stack[sp] = second
			sp++
			current = first
			continue
		}

		if sp == 0 {
			break
		}
		sp--
		current = stack[sp]
	}

	return closest, closestPrim, closest != nil
}

// IntersectP is the existence-only shadow-ray test: it returns as soon as
// any occluder is found, skipping surface-interaction construction
// entirely (spec's required fast path for shadow rays).
func (b *BVH) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	if len(b.nodes) == 0 {
		return false
	}
	rs := core.NewRaySign(ray.Direction)

	var stack [maxTraversalStack]int
	sp := 0
	current := 0

	for {
		node := &b.nodes[current]
		if node.bounds.FastIntersect(ray, tMax, rs) {
			if node.primitiveCount > 0 {
				for i := 0; i < node.primitiveCount; i++ {
					primIdx := b.ordered[node.primitivesStart+i]
					if b.primitives[primIdx].Shape.IntersectP(ray, tMin, tMax) {
						return true
					}
				}
				if sp == 0 {
					return false
				}
				sp--
				current = stack[sp]
				continue
			}

			first, second := current+1, node.secondChild
			if rs.Sign[node.axis] == 1 {
				first, second = second, first
			}
			stack[sp] = second
			sp++
			current = first
			continue
		}

		if sp == 0 {
			return false
		}
		sp--
		current = stack[sp]
	}
}

// Bounds returns the world-space bounds of the whole tree (the root
// node's box), or a degenerate zero box if the BVH has no primitives.
func (b *BVH) Bounds() core.AABB {
	if len(b.nodes) == 0 {
		return core.AABB{}
	}
	return b.nodes[0].bounds
}

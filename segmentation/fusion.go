package segmentation

import (
	"image"
	"sort"

	"github.com/chewxy/math32"
	"github.com/edaniels/golog"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/nvr-ai/go-seg/images"
)

// FusionConfig holds the fragment-consolidation parameters.
//
// A single physical part is occasionally split by the segmentation model
// into adjacent or overlapping fragments. Two same-class instances are
// considered fragments of one object when their mask centroids are within
// DistanceMax pixels or when their mask overlap, normalized by the smaller
// mask, reaches OverlapMin. The relation is closed transitively: fragments
// linked through an intermediate one fuse together even when they would not
// pair directly.
type FusionConfig struct {
	// DistanceMax is the centroid distance at or below which two instances
	// pair, in pixels.
	DistanceMax float32
	// OverlapMin is the minimum intersection / min(area, area) fraction for
	// two instances to pair.
	OverlapMin float32
	// AreaMin is the minimum combined mask area of a cluster for the merge
	// to proceed. Smaller clusters are emitted unfused as noise.
	AreaMin int
}

// DefaultFusionConfig returns the moderate consolidation parameters.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		DistanceMax: 30,
		OverlapMin:  0.1,
		AreaMin:     100,
	}
}

// FuseInstances consolidates fragments of one physical object into a single
// instance while leaving genuinely distinct objects untouched.
//
// The accepted instances of the frame form an undirected graph under the
// pairing predicate; connected components of that graph are the clusters. A
// cluster of one passes through unchanged. A larger cluster merges into one
// instance whose mask is the pixel-wise union of the members, whose
// confidence is the maximum over members (never higher than any real
// detection), and whose box, centroid and area are recomputed from the
// union.
//
// A cluster whose union mask comes out empty should be unreachable with
// valid upstream geometry; it is logged as an internal-invariant warning and
// its members are emitted unfused instead of failing the frame.
//
// The result is ordered by descending confidence, ties by discovery order.
func FuseInstances(instances []SegmentedInstance, cfg FusionConfig, logger golog.Logger) []FusedInstance {
	if len(instances) == 0 {
		return nil
	}
	if logger == nil {
		logger = golog.Global()
	}

	g := simple.NewUndirectedGraph()
	for i := range instances {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < len(instances); i++ {
		for j := i + 1; j < len(instances); j++ {
			if shouldPair(&instances[i], &instances[j], cfg) {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			}
		}
	}

	clusters := sortedComponents(topo.ConnectedComponents(g))

	fused := make([]FusedInstance, 0, len(instances))
	for _, members := range clusters {
		if len(members) == 1 {
			fused = append(fused, FusedInstance{
				SegmentedInstance: instances[members[0]],
				Fused:             false,
				SourceCount:       1,
			})
			continue
		}
		fused = append(fused, mergeCluster(instances, members, cfg, logger)...)
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Confidence > fused[j].Confidence
	})
	return fused
}

// shouldPair evaluates the fragment predicate for two instances.
func shouldPair(a, b *SegmentedInstance, cfg FusionConfig) bool {
	if a.Class != b.Class {
		return false
	}

	dx := float32(a.Centroid.X - b.Centroid.X)
	dy := float32(a.Centroid.Y - b.Centroid.Y)
	if math32.Hypot(dx, dy) <= cfg.DistanceMax {
		return true
	}

	smaller := min(a.AreaMask, b.AreaMask)
	if smaller <= 0 {
		return false
	}
	overlap := float32(a.Mask.IntersectionArea(b.Mask)) / float32(smaller)
	return overlap >= cfg.OverlapMin
}

// sortedComponents converts gonum components into index slices with a
// deterministic order: members ascending, clusters by first member.
func sortedComponents(components [][]graph.Node) [][]int {
	clusters := make([][]int, 0, len(components))
	for _, comp := range components {
		members := make([]int, 0, len(comp))
		for _, node := range comp {
			members = append(members, int(node.ID()))
		}
		sort.Ints(members)
		clusters = append(clusters, members)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}

// mergeCluster merges the members into one fused instance, or emits them
// unfused when the cluster is too small to consolidate or its union mask is
// inconsistent.
func mergeCluster(
	instances []SegmentedInstance,
	members []int,
	cfg FusionConfig,
	logger golog.Logger,
) []FusedInstance {
	totalArea := 0
	for _, idx := range members {
		totalArea += instances[idx].AreaMask
	}
	if totalArea < cfg.AreaMin {
		return passthrough(instances, members)
	}

	first := &instances[members[0]]
	union := images.NewMask(first.Mask.W, first.Mask.H)
	confidence := first.Confidence
	for _, idx := range members {
		instances[idx].Mask.UnionInto(union)
		if instances[idx].Confidence > confidence {
			confidence = instances[idx].Confidence
		}
	}

	unionArea := union.Area()
	bounds, boundsOK := union.ActiveBounds()
	centroid, centroidOK := union.Centroid()
	if unionArea == 0 || !boundsOK || !centroidOK {
		logger.Warnw("fusion produced an empty union mask, emitting members unfused",
			"members", len(members),
			"total_area", totalArea,
		)
		return passthrough(instances, members)
	}

	return []FusedInstance{{
		SegmentedInstance: SegmentedInstance{
			Class:      first.Class,
			Confidence: confidence,
			Box:        bounds,
			Centroid:   image.Pt(centroid.X, centroid.Y),
			AreaBox:    bounds.Area(),
			Mask:       union,
			AreaMask:   unionArea,
			MaskWidth:  bounds.Width(),
			MaskHeight: bounds.Height(),
		},
		Fused:       true,
		SourceCount: len(members),
	}}
}

func passthrough(instances []SegmentedInstance, members []int) []FusedInstance {
	out := make([]FusedInstance, 0, len(members))
	for _, idx := range members {
		out = append(out, FusedInstance{
			SegmentedInstance: instances[idx],
			Fused:             false,
			SourceCount:       1,
		})
	}
	return out
}

// Package samples provides built-in demonstration graphs and a deterministic
// layered graph generator for benchmarks. The in-memory store seeds itself
// with All().
package samples

import (
	"fmt"
	"math/rand"

	"github.com/causalsim/causalsim/internal/model"
)

// All returns the built-in demo graphs.
func All() []model.CausalGraph {
	return []model.CausalGraph{
		SupplyChain(),
		ProductLaunch(),
	}
}

// SupplyChain is a small acyclic graph of continuous nodes: two root causes
// feeding delivery time, which feeds customer satisfaction.
func SupplyChain() model.CausalGraph {
	return model.CausalGraph{
		ID:   "supply-chain",
		Name: "Supply Chain",
		Nodes: []model.Node{
			{ID: "supplier_delay", Name: "Supplier Delay (days)", Type: model.Continuous, BaseValue: model.NewNumber(2)},
			{ID: "inventory_level", Name: "Inventory Level (units)", Type: model.Continuous, BaseValue: model.NewNumber(500)},
			{ID: "delivery_time", Name: "Delivery Time (days)", Type: model.Continuous, BaseValue: model.NewNumber(5)},
			{ID: "customer_satisfaction", Name: "Customer Satisfaction (score)", Type: model.Continuous, BaseValue: model.NewNumber(80)},
		},
		Edges: []model.Edge{
			{SourceID: "supplier_delay", TargetID: "delivery_time", Weight: 0.8},
			{SourceID: "inventory_level", TargetID: "delivery_time", Weight: -0.005},
			{SourceID: "delivery_time", TargetID: "customer_satisfaction", Weight: -4},
		},
	}
}

// ProductLaunch mixes continuous, binary, and categorical nodes. The market
// segment node is a label pass-through: it never receives propagated deltas.
func ProductLaunch() model.CausalGraph {
	return model.CausalGraph{
		ID:   "product-launch",
		Name: "Product Launch",
		Nodes: []model.Node{
			{ID: "ad_spend", Name: "Ad Spend (k$)", Type: model.Continuous, BaseValue: model.NewNumber(100)},
			{ID: "influencer_deal", Name: "Influencer Deal", Type: model.Binary, BaseValue: model.NewNumber(0)},
			{ID: "brand_awareness", Name: "Brand Awareness (%)", Type: model.Continuous, BaseValue: model.NewNumber(20)},
			{
				ID:             "market_segment",
				Name:           "Market Segment",
				Type:           model.Categorical,
				BaseValue:      model.NewLabel("mainstream"),
				PossibleValues: []string{"niche", "mainstream", "premium"},
			},
			{ID: "units_sold", Name: "Units Sold (k)", Type: model.Continuous, BaseValue: model.NewNumber(50)},
		},
		Edges: []model.Edge{
			{SourceID: "ad_spend", TargetID: "brand_awareness", Weight: 0.15},
			{SourceID: "influencer_deal", TargetID: "brand_awareness", Weight: 12},
			{SourceID: "brand_awareness", TargetID: "units_sold", Weight: 1.8},
		},
	}
}

// Layered generates a deterministic layered DAG with the given node and
// edge counts. Edges only point from earlier layers to later ones, so the
// result is always acyclic. The same seed produces the same graph.
func Layered(nodeCount, edgeCount int, seed int64) model.CausalGraph {
	rng := rand.New(rand.NewSource(seed))

	// Pyramid-shaped layers: small root layers widening toward the leaves.
	const maxDepth = 15
	var layerSizes []int
	remaining := nodeCount
	for layer := 0; remaining > 0; layer++ {
		var size int
		switch {
		case layer < 5:
			size = 50 + layer*30
		case layer < 10:
			size = 200 + (layer-5)*50
		default:
			size = 300
		}
		if size > remaining {
			size = remaining
		}
		layerSizes = append(layerSizes, size)
		remaining -= size
		if layer >= maxDepth {
			layerSizes[len(layerSizes)-1] += remaining
			break
		}
	}

	g := model.CausalGraph{
		ID:   fmt.Sprintf("layered-%d", nodeCount),
		Name: fmt.Sprintf("Layered Benchmark (%d nodes)", nodeCount),
	}

	// layers[i] holds the node indices of layer i.
	var layers [][]int
	idx := 0
	for layerNum, size := range layerSizes {
		layer := make([]int, 0, size)
		for i := 0; i < size; i++ {
			var name string
			switch {
			case layerNum == 0:
				name = fmt.Sprintf("Root Cause %d", i+1)
			case layerNum < 3:
				name = fmt.Sprintf("Input Factor %d", idx)
			case layerNum < 6:
				name = fmt.Sprintf("Intermediate %d", idx)
			default:
				name = fmt.Sprintf("Outcome %d", idx)
			}
			g.Nodes = append(g.Nodes, model.Node{
				ID:        fmt.Sprintf("node_%04d", idx),
				Name:      name,
				Type:      model.Continuous,
				BaseValue: model.NewNumber(float64(rng.Intn(100))),
			})
			layer = append(layer, idx)
			idx++
		}
		layers = append(layers, layer)
	}

	if len(layers) < 2 {
		return g
	}

	// Edges always cross from an earlier layer to a later one. Duplicate
	// (source, target) pairs are skipped, and the attempt budget bounds the
	// loop, so the edge count is an upper bound.
	seen := make(map[[2]int]bool, edgeCount)
	for attempts := 0; len(g.Edges) < edgeCount && attempts < edgeCount*20; attempts++ {
		from := rng.Intn(len(layers) - 1)
		to := from + 1 + rng.Intn(len(layers)-from-1)
		src := layers[from][rng.Intn(len(layers[from]))]
		dst := layers[to][rng.Intn(len(layers[to]))]
		key := [2]int{src, dst}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.Edges = append(g.Edges, model.Edge{
			SourceID: g.Nodes[src].ID,
			TargetID: g.Nodes[dst].ID,
			Weight:   rng.Float64()*2 - 1, // [-1, 1)
		})
	}

	return g
}

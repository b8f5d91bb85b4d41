package grouping

import (
	"strings"

	"github.com/mamadbah2/farmcost/internal/domain/models"
	"github.com/mamadbah2/farmcost/internal/textmatch"
)

// Clusterer partitions batches into clusters that represent one logical product.
type Clusterer interface {
	Cluster(batches []models.InventoryBatch) [][]models.InventoryBatch
}

// GreedyClusterer assigns each batch to the first existing cluster whose
// representative (seed) name is similar, or opens a new cluster. The result
// depends on input order.
type GreedyClusterer struct {
	// Similar overrides the name matcher. Nil means textmatch.AreSimilar.
	Similar func(a, b string) bool
}

type cluster struct {
	representative string
	batches        []models.InventoryBatch
}

// Cluster implements Clusterer. Batches without a name are skipped.
func (g GreedyClusterer) Cluster(batches []models.InventoryBatch) [][]models.InventoryBatch {
	similar := g.Similar
	if similar == nil {
		similar = textmatch.AreSimilar
	}

	var clusters []*cluster
	for _, batch := range batches {
		if strings.TrimSpace(batch.Name) == "" {
			continue
		}

		var target *cluster
		for _, c := range clusters {
			if similar(c.representative, batch.Name) {
				target = c
				break
			}
		}
		if target == nil {
			target = &cluster{representative: batch.Name}
			clusters = append(clusters, target)
		}
		target.batches = append(target.batches, batch)
	}

	out := make([][]models.InventoryBatch, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.batches)
	}
	return out
}

package importer

import (
	"github.com/samber/lo"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

// Classify applies a preview round-trip's verdicts to the pending items.
// Items the response does not mention keep their prior status; freshly
// parsed ones become ready. An unknown classification string also maps to
// ready so a newer server cannot strand items in limbo.
func Classify(items []models.ImportItem, resp *models.PreviewResponse) []models.ImportItem {
	verdicts := make(map[string]models.PreviewClassification)
	if resp != nil {
		verdicts = lo.SliceToMap(resp.Items, func(c models.PreviewClassification) (string, models.PreviewClassification) {
			return c.LocalID, c
		})
	}

	classified := make([]models.ImportItem, len(items))
	for i, item := range items {
		verdict, ok := verdicts[item.LocalID]
		if !ok {
			if item.DedupeStatus == "" || item.DedupeStatus == models.DedupeUnclassified {
				item.DedupeStatus = models.DedupeReady
			}
			classified[i] = item
			continue
		}

		switch verdict.Classification {
		case models.DedupeDuplicate, models.DedupePossibleDuplicate, models.DedupeError:
			item.DedupeStatus = verdict.Classification
		default:
			item.DedupeStatus = models.DedupeReady
		}
		item.DuplicateExplanation = verdict.Explanation
		classified[i] = item
	}
	return classified
}

package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringlab/flightlog-backend-go/internal/models"
)

func TestClassifyAppliesVerdicts(t *testing.T) {
	items := []models.ImportItem{
		{LocalID: "a", DedupeStatus: models.DedupeUnclassified},
		{LocalID: "b", DedupeStatus: models.DedupeUnclassified},
		{LocalID: "c", DedupeStatus: models.DedupeUnclassified},
	}
	resp := &models.PreviewResponse{Items: []models.PreviewClassification{
		{LocalID: "a", Classification: models.DedupeDuplicate, Explanation: "same fingerprint"},
		{LocalID: "b", Classification: models.DedupePossibleDuplicate, Explanation: "same date, similar distance"},
		{LocalID: "c", Classification: "something-new"},
	}}

	classified := Classify(items, resp)

	require.Len(t, classified, 3)
	assert.Equal(t, models.DedupeDuplicate, classified[0].DedupeStatus)
	assert.Equal(t, "same fingerprint", classified[0].DuplicateExplanation)
	assert.Equal(t, models.DedupePossibleDuplicate, classified[1].DedupeStatus)
	assert.Equal(t, models.DedupeReady, classified[2].DedupeStatus)
}

func TestClassifyUnmentionedItems(t *testing.T) {
	items := []models.ImportItem{
		{LocalID: "new", DedupeStatus: models.DedupeUnclassified},
		{LocalID: "seen", DedupeStatus: models.DedupeDuplicate, DuplicateExplanation: "kept"},
	}

	classified := Classify(items, &models.PreviewResponse{})

	assert.Equal(t, models.DedupeReady, classified[0].DedupeStatus)
	assert.Equal(t, models.DedupeDuplicate, classified[1].DedupeStatus)
	assert.Equal(t, "kept", classified[1].DuplicateExplanation)
}

func TestClassifyNilResponse(t *testing.T) {
	items := []models.ImportItem{{LocalID: "a"}}
	classified := Classify(items, nil)
	assert.Equal(t, models.DedupeReady, classified[0].DedupeStatus)
}

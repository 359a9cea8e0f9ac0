package feed

import (
	"example.com/assettrack/internal/domain"
	"example.com/assettrack/internal/source"
)

// normalize wraps raw source records into feed envelopes. The type tag is
// taken from the adapter identity here, exactly once; nothing downstream
// re-derives it.
func normalize(kind domain.ActivityType, raws []source.RawRecord) []domain.ActivityRecord {
	records := make([]domain.ActivityRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, domain.ActivityRecord{
			ID:               raw.ID,
			Type:             kind,
			AssetID:          raw.AssetID,
			AssetTagID:       raw.AssetTagID,
			AssetDescription: raw.AssetDescription,
			Timestamp:        raw.CreatedAt,
			Details:          raw.Details,
		})
	}
	return records
}

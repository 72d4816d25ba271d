package query

import (
	"sync"

	"github.com/goliatone/go-activity/pkg/types"
	"github.com/goliatone/go-masker"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns a masker with the stock sensitive-field denylist
// registered. Change diffs store raw attribute values; masking (like
// decryption) is strictly a read-side concern applied before exposure.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeRecord masks sensitive values in the record's properties bag. On
// masking failure the bag is dropped entirely rather than leaked.
func SanitizeRecord(mask *masker.Masker, record types.Record) types.Record {
	if len(record.Properties) == 0 {
		return record
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		record.Properties = map[string]any{}
		return record
	}

	cloned := make(map[string]any, len(record.Properties))
	for k, v := range record.Properties {
		cloned[k] = v
	}
	masked, err := mask.Mask(cloned)
	if err != nil {
		record.Properties = map[string]any{}
		return record
	}

	switch masked := masked.(type) {
	case map[string]any:
		record.Properties = masked
	default:
		record.Properties = map[string]any{}
	}
	return record
}

// SanitizeRecords masks sensitive values for every record in the slice.
func SanitizeRecords(mask *masker.Masker, records []types.Record) []types.Record {
	if len(records) == 0 {
		return records
	}
	out := make([]types.Record, 0, len(records))
	for _, record := range records {
		out = append(out, SanitizeRecord(mask, record))
	}
	return out
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("password", "filled4")
	mask.RegisterMaskField("secret", "filled4")
	mask.RegisterMaskField("token", "filled4")
}

package trackable

import "strings"

// DefaultLogName is used when a type identifier yields no usable namespace.
const DefaultLogName = "default"

// LogNamer lets an entity control the log channel its activities land in,
// overriding namespace derivation.
type LogNamer interface {
	ActivityLogName() string
}

// LogName derives a log channel from a fully qualified type identifier so
// activities group by owning module. Dots, slashes, and backslashes all act
// as namespace separators:
//
//   - a single-segment name is used directly
//   - a three-segment name whose first segment is a recognized top-level
//     module becomes "Module.<first>"
//   - anything else falls back to "<first>.<second>" (vendor.plugin)
func LogName(typeID string, recognizedModules []string) string {
	segments := splitTypeID(typeID)
	switch {
	case len(segments) == 0:
		return DefaultLogName
	case len(segments) == 1:
		return segments[0]
	case len(segments) == 3 && containsFold(recognizedModules, segments[0]):
		return "Module." + segments[0]
	default:
		return segments[0] + "." + segments[1]
	}
}

func splitTypeID(typeID string) []string {
	parts := strings.FieldsFunc(typeID, func(r rune) bool {
		return r == '.' || r == '/' || r == '\\'
	})
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

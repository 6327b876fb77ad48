package scoring

import "strings"

// CategoryKind is the closed set of category buckets the scoring rules
// care about. Transactions carry free-text category labels, so matching
// is by case-insensitive substring against one keyword per kind rather
// than scattered string checks.
type CategoryKind string

const (
	KindFee       CategoryKind = "fee"
	KindTransfer  CategoryKind = "transfer"
	KindDining    CategoryKind = "dining"
	KindUtilities CategoryKind = "utilities"
)

var categoryKeywords = map[CategoryKind]string{
	KindFee:       "fee",
	KindTransfer:  "transfer",
	KindDining:    "dining",
	KindUtilities: "utilit",
}

// MatchesCategory reports whether a free-text category label belongs to
// the given bucket, e.g. "Bank Fees" matches KindFee.
func MatchesCategory(category string, kind CategoryKind) bool {
	kw, ok := categoryKeywords[kind]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(category), kw)
}

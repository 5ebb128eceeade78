// Package match provides name normalization, Levenshtein distance calculation
// and candidate ranking for field names.
//
// Key functions:
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - RankNames: ranks known field names against a requested one
//   - Suggest: "did you mean" hints for unresolved field names
package match

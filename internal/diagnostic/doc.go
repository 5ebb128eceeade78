// Package diagnostic collects structured errors, warnings and notes
// produced while validating a join plan.
//
// Key capabilities:
//   - Missing or malformed join settings
//   - Unknown key categories and formats
//   - Fields that cannot be read or written on declared record types,
//     with close-name suggestions
package diagnostic

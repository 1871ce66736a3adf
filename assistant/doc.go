// Package assistant answers dietary questions about the dish catalog.
//
// A question moves through fixed stages:
//
//	Extracting -> Filtering -> FallbackCheck -> [Ranking] -> Formatting -> Generating -> Done
//
// Extraction turns the question into a filter.ConstraintSet. Strict
// filtering keeps the pool dishes that satisfy every constraint. When that
// leaves fewer dishes than the question needs (3, or 5 when it asks for
// variety), the excluded dishes are scored and up to 10 of the best are
// appended after the strict matches, which are never reordered.
//
// Two runs end early: ExtractionFailed, with a fixed message, when the
// filters cannot be obtained, and NoMatches when no dish is left to
// recommend.
package assistant

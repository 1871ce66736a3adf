// Package tagging infers boolean dietary tags for catalog dishes.
//
// Rules are keyword and threshold heuristics over the dish name, ingredients
// and macronutrients. They run once at ingestion and only fill tags that are
// still unknown: a tag carried by the catalog row is never overwritten.
//
// A rule that depends on a missing quantity leaves its tag unknown rather
// than guessing from zero.
package tagging

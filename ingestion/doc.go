// Package ingestion turns cleaned catalog rows into stored dishes.
//
// The Pipeline type manages the seeding workflow, including:
//   - Converting rows and validating the resulting dishes
//   - Inferring unknown dietary tags with the tagging rules
//   - Generating embeddings concurrently in batches
//   - Adding the dishes to storage
//
// Invalid rows are skipped and reported. Embedding failures fail the run
// before anything is stored.
package ingestion

// Package reembed regenerates the embeddings of every stored dish, typically
// after switching embedding models.
//
// Dishes are paged by ID and embedded in batches. Each embedding call is
// retried with exponential backoff; malformed responses are not retried.
// Vectors are normalized before they are written back so similarity search
// can score them with a dot product.
package reembed

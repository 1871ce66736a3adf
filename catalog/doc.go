// Package catalog builds the candidate pool: the bounded set of dishes that
// every question is answered from.
//
// The pool is fetched once, by embedding a broad term and taking the nearest
// dishes, and is then shared read-only by all queries. Its order is the
// similarity order and it decides ties in later ranking.
package catalog

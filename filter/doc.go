// Package filter turns extracted dietary filters into constraints and
// evaluates them against catalog dishes.
//
// Strict filtering (Apply) is an order-preserving projection: a dish stays
// only when every constraint holds, and an unknown value never holds. When
// strict filtering leaves too little, Rank scores the excluded dishes by how
// close they come and returns the best few.
//
// Everything here is pure. Apply, Rank and Score never fail; only parsing
// reports problems, and it does so by dropping the offending entry.
package filter

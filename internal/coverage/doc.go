// Package coverage computes which x positions of a row are inside at least
// one sensor diamond, and builds the row count and gap search on top of it.
//
// Responsibilities: projecting sensors onto a row, merging the projections
// into a minimal sorted Range list, counting covered cells, and scanning a
// bounded region for the uncovered cell (sequentially or across a worker
// pool).
// Key types: Range, Bounds, Scanner, NotFoundError.
//
// A merged Range list is sorted by Lo and any two consecutive entries are
// separated by at least one uncovered integer. Touching ranges are fused, so
// a row has more than one Range only when it contains a gap.
package coverage

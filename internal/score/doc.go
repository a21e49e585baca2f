// Package score computes the machine-readability score breakdown and
// the prioritized recommendation list from extracted page facts. Both
// computations are pure functions: the same facts always yield the
// same points and the same recommendations in the same order.
package score

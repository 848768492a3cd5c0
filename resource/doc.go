// Package resource bounds the shared resources of a training process:
// memory held by cached partitions, concurrent partition workers, and the
// IO bandwidth used to spill partitions to a blob store.
//
// A single Controller is usually shared by every collection engine in the
// process so that the cache tier of all datasets draws from one budget.
package resource

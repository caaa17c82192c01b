// Package treefile maps a nested, named data structure onto a filesystem
// hierarchy. Each branch of the tree may exist on disk either as a directory
// (whose entries are the sub-branches) or as a single file (whose contents
// encode an entire sub-tree, by way of a pluggable [Codec]).
//
// The package provides uniform, path-addressed access over this hybrid
// representation and serves as the foundational layer for all on-disk tree
// interactions: lazy materialization of directory children, write-back that
// can convert a branch between its file and directory representations
// ([Node.Explode] and [Node.Collapse]), and an advisory lock guarding
// concurrent loads and writes against the same root.
//
// In-memory mutation of a loaded tree is not safe for concurrent use; the
// advisory lock covers the disk-touching windows only.
package treefile

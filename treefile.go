package treefile

import (
	"fmt"
	"path/filepath"

	"github.com/desertwitch/treefile/lockfile"
)

// PreloadAll requests eager materialization of every directory level during
// [Load], leaving no pending children anywhere in the resulting tree.
const PreloadAll = -1

// NotFoundFunc is invoked whenever path resolution fails to find an
// identifier and autovivification was not requested. It receives the missing
// identifier and the location of the node resolution stopped at; its return
// value becomes the result of the failed lookup.
type NotFoundFunc func(id string, location string) any

// Options holds the construction-time configuration of a tree.
type Options struct {
	// Readonly makes every mutating operation fail with [ErrReadOnly].
	Readonly bool

	// Preload is the number of directory levels to materialize eagerly
	// during [Load]; zero means fully lazy, [PreloadAll] means unbounded.
	Preload int

	// NotFound is consulted on failed path resolutions; when nil, a failed
	// lookup simply yields nil.
	NotFound NotFoundFunc
}

// treeContext carries the state shared by every [Node] of one loaded tree:
// the base directory, the codec, the advisory lock manager and the not-found
// handler. It is created once per [Load] and propagated by reference.
type treeContext struct {
	base     string
	codec    Codec
	lock     *lockfile.Manager
	notFound NotFoundFunc
	readonly bool
	osOps    osProvider
}

// diskPath resolves a node location to its effective on-disk path. An empty
// baseOverride means the context's own base directory.
func (c *treeContext) diskPath(location, baseOverride string) string {
	base := c.base
	if baseOverride != "" {
		base = baseOverride
	}
	if location == "" {
		return filepath.Clean(base)
	}

	return filepath.Join(base, location)
}

// joinLocation appends a child name to a parent location; the root node's
// location is the empty string.
func joinLocation(location, name string) string {
	if location == "" {
		return name
	}

	return location + "/" + name
}

// Load reads the tree rooted at the given path, which must exist as either a
// single file (decoded through codec into an entire sub-tree) or a directory
// (whose entries become lazily loaded children). A nil codec is substituted
// with [UnimplementedCodec], deferring the failure to first file contact.
//
// The load and all later disk-touching operations on the returned tree are
// guarded by one shared advisory lock, whose sentinel file lives next to the
// root (see [lockfile.Manager]).
func Load(root string, codec Codec, opts Options) (*Node, error) {
	if codec == nil {
		codec = UnimplementedCodec{}
	}

	ctx := &treeContext{
		base:     root,
		codec:    codec,
		lock:     lockfile.NewManager(root),
		notFound: opts.NotFound,
		readonly: opts.Readonly,
		osOps:    RealOS{},
	}

	value, err := load(ctx, "", opts.Preload)
	if err != nil {
		return nil, err
	}

	node, ok := value.(*Node)
	if !ok {
		return nil, fmt.Errorf("(load) %w: root %s", ErrNotBranch, root)
	}

	return node, nil
}

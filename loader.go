package treefile

import (
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
)

// load materializes the element at a location: a regular file is decoded
// through the codec into an entire sub-tree, a directory becomes a branch
// whose children are loaded eagerly for depth levels and lazily thereafter.
// A depth of [PreloadAll] propagates unchanged, making every level eager.
//
// Only the disk probe and the codec read happen under the advisory lock;
// recursive child loads take and release it on their own.
func load(ctx *treeContext, location string, depth int) (any, error) {
	path := ctx.diskPath(location, "")

	if err := ctx.lock.Lock(); err != nil {
		return nil, fmt.Errorf("(load) %w", err)
	}

	info, err := ctx.osOps.Stat(path)
	if err != nil || (!info.Mode().IsRegular() && !info.IsDir()) {
		_, _ = ctx.lock.Unlock()

		if err != nil {
			return nil, fmt.Errorf("(load) failed to stat: %w", err)
		}

		return nil, fmt.Errorf("(load) %w: %s", ErrNotFileOrDir, path)
	}

	if info.Mode().IsRegular() {
		value, cerr := ctx.codec.LoadFile(path)

		if _, err := ctx.lock.Unlock(); err != nil {
			return nil, fmt.Errorf("(load) %w", err)
		}
		if cerr != nil {
			return nil, fmt.Errorf("(load) %w", cerr)
		}

		return nodeFromValue(ctx, value, location, ctx.readonly), nil
	}

	if _, err := ctx.lock.Unlock(); err != nil {
		return nil, fmt.Errorf("(load) %w", err)
	}

	return loadDir(ctx, location, path, depth)
}

// loadDir builds a branch from a directory listing. Entries whose name
// starts with a dot, equals the literal CVS, or are symbolic links never
// become children.
func loadDir(ctx *treeContext, location, path string, depth int) (*Node, error) {
	entries, err := ctx.osOps.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("(load) failed to readdir: %w", err)
	}

	node := newNode(ctx, location, ctx.readonly)
	node.repType = RepDir

	for _, entry := range entries {
		name := entry.Name()

		if strings.HasPrefix(name, ".") || name == "CVS" {
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			slog.Debug("Skipped symlinked entry", "name", name, "path", path)

			continue
		}

		childLoc := joinLocation(location, name)

		if depth != 0 {
			child, err := load(ctx, childLoc, nextDepth(depth))
			if err != nil {
				return nil, err
			}
			node.children[name] = &slot{value: child}

			continue
		}

		node.children[name] = &slot{thunk: func() (any, error) {
			return load(ctx, childLoc, 0)
		}}
	}

	return node, nil
}

func nextDepth(depth int) int {
	if depth < 0 {
		return depth
	}

	return depth - 1
}

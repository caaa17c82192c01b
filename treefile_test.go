package treefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/desertwitch/treefile"
	"github.com/desertwitch/treefile/lockfile"
	"github.com/desertwitch/treefile/yamlcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioRoot builds the reference layout: directory root with file "a"
// (leaf 1) and subdirectory "b" holding file "c" (leaf "x").
func scenarioRoot(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "root")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "c"), []byte("x\n"), 0o644))

	return root
}

func loadScenario(t *testing.T, opts treefile.Options) *treefile.Node {
	t.Helper()

	tree, err := treefile.Load(scenarioRoot(t), yamlcodec.Codec{}, opts)
	require.NoError(t, err)

	return tree
}

func TestLoad_GetNested(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	value, err := tree.Get("b/c")
	require.NoError(t, err)
	assert.Equal(t, "x", value)

	value, err = tree.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestLoad_LeadingSlashEquivalence(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	direct, err := tree.Get("/b/c")
	require.NoError(t, err)

	value, err := tree.Get("b")
	require.NoError(t, err)

	branch, ok := value.(*treefile.Node)
	require.True(t, ok)

	stepped, err := branch.Get("c")
	require.NoError(t, err)

	assert.Equal(t, stepped, direct)
}

func TestLoad_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := treefile.Load(filepath.Join(t.TempDir(), "nowhere"), yamlcodec.Codec{}, treefile.Options{})
	require.Error(t, err)
}

func TestLoad_SkipsDotfilesCVSAndSymlinks(t *testing.T) {
	t.Parallel()

	root := scenarioRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "CVS"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "link")))

	tree, err := treefile.Load(root, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tree.NodeNames())
}

func TestLoad_PreloadEqualsLazy(t *testing.T) {
	t.Parallel()

	root := scenarioRoot(t)

	eager, err := treefile.Load(root, yamlcodec.Codec{}, treefile.Options{Preload: treefile.PreloadAll})
	require.NoError(t, err)

	lazy, err := treefile.Load(root, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	eagerData, err := eager.Data()
	require.NoError(t, err)

	lazyData, err := lazy.Data()
	require.NoError(t, err)

	assert.Equal(t, eagerData, lazyData)
	assert.Equal(t, map[string]any{"a": 1, "b": map[string]any{"c": "x"}}, lazyData)
}

func TestGet_MissingIdentifier(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	_, err := tree.Get("")
	require.ErrorIs(t, err, treefile.ErrMissingIdentifier)

	_, err = tree.Get("///")
	require.ErrorIs(t, err, treefile.ErrMissingIdentifier)
}

func TestGet_NotFoundHandler(t *testing.T) {
	t.Parallel()

	var missedID, missedAt string

	tree := loadScenario(t, treefile.Options{
		NotFound: func(id, location string) any {
			missedID, missedAt = id, location

			return "fallback"
		},
	})

	value, err := tree.Get("b/nope")
	require.NoError(t, err)

	assert.Equal(t, "fallback", value)
	assert.Equal(t, "nope", missedID)
	assert.Equal(t, "b", missedAt)
}

func TestSet_GetRoundTrip(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	_, err := tree.Set("b/d", 2)
	require.NoError(t, err)

	value, err := tree.Get("b/d")
	require.NoError(t, err)
	assert.Equal(t, 2, value)

	// Mapping values become sub-branches.
	_, err = tree.Set("e", map[string]any{"f": "y"})
	require.NoError(t, err)

	value, err = tree.Get("e")
	require.NoError(t, err)

	branch, ok := value.(*treefile.Node)
	require.True(t, ok)
	assert.Equal(t, "e", branch.Path())
	assert.Equal(t, "e", branch.Basename())

	value, err = tree.Get("e/f")
	require.NoError(t, err)
	assert.Equal(t, "y", value)
}

func TestSet_AutovivifiesIntermediates(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	_, err := tree.Set("p/q/r", 3)
	require.NoError(t, err)

	value, err := tree.Get("p/q")
	require.NoError(t, err)

	branch, ok := value.(*treefile.Node)
	require.True(t, ok)
	assert.Equal(t, "p/q", branch.Path())
	assert.Equal(t, "q", branch.Basename())

	value, err = tree.Get("p/q/r")
	require.NoError(t, err)
	assert.Equal(t, 3, value)
}

func TestDelete_ThenGetIsMiss(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	removed, err := tree.Delete("b/c")
	require.NoError(t, err)
	assert.Equal(t, "x", removed)

	value, err := tree.Get("b/c")
	require.NoError(t, err)
	assert.Nil(t, value)

	// Absence is a no-op.
	removed, err = tree.Delete("b/c")
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestMove_EquivalentToSetDelete(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	require.NoError(t, tree.Move("b/c", "moved"))

	value, err := tree.Get("b/c")
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = tree.Get("moved")
	require.NoError(t, err)
	assert.Equal(t, "x", value)
}

func TestReadonly_MutationsFail(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{Readonly: true, Preload: treefile.PreloadAll})

	before, err := tree.Data()
	require.NoError(t, err)

	_, err = tree.Set("a", 2)
	require.ErrorIs(t, err, treefile.ErrReadOnly)

	_, err = tree.Delete("a")
	require.ErrorIs(t, err, treefile.ErrReadOnly)

	err = tree.Move("a", "z")
	require.ErrorIs(t, err, treefile.ErrReadOnly)

	after, err := tree.Data()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSetType_Validation(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	assert.Equal(t, treefile.RepDir, tree.Type())

	rep, err := tree.SetType(treefile.RepFile)
	require.NoError(t, err)
	assert.Equal(t, treefile.RepFile, rep)
	assert.Equal(t, treefile.RepFile, tree.Type())

	_, err = tree.SetType(treefile.RepUnset)
	require.NoError(t, err)
	assert.Equal(t, treefile.RepUnset, tree.Type())

	_, err = tree.SetType("banana")
	require.ErrorIs(t, err, treefile.ErrInvalidType)
	assert.Equal(t, treefile.RepUnset, tree.Type())
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	assert.Equal(t, "", tree.Path())
	assert.Equal(t, "", tree.Basename())
	assert.Equal(t, []string{"a", "b"}, tree.NodeNames())

	branchNames, err := tree.BranchNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, branchNames)

	branches, err := tree.Branches()
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "b", branches[0].Path())

	values, err := tree.Nodes()
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, 1, values[0])
	assert.Equal(t, branches[0], values[1])
}

func TestWrite_NewLeaf(t *testing.T) {
	t.Parallel()

	root := scenarioRoot(t)

	tree, err := treefile.Load(root, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	_, err = tree.Set("b/d", 2)
	require.NoError(t, err)
	require.NoError(t, tree.Write())

	for path, want := range map[string]any{
		filepath.Join(root, "a"):      1,
		filepath.Join(root, "b", "c"): "x",
		filepath.Join(root, "b", "d"): 2,
	} {
		value, err := yamlcodec.Codec{}.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, value)
	}
}

func TestWrite_Collapse(t *testing.T) {
	t.Parallel()

	root := scenarioRoot(t)

	tree, err := treefile.Load(root, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	_, err = tree.Set("b/d", 2)
	require.NoError(t, err)

	value, err := tree.Get("b")
	require.NoError(t, err)

	branch, ok := value.(*treefile.Node)
	require.True(t, ok)

	branch.Collapse()
	require.NoError(t, tree.Write())

	info, err := os.Stat(filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	decoded, err := yamlcodec.Codec{}.LoadFile(filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"c": "x", "d": 2}, decoded)
}

func TestWrite_CollapseThenExplode(t *testing.T) {
	t.Parallel()

	root := scenarioRoot(t)

	tree, err := treefile.Load(root, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	value, err := tree.Get("b")
	require.NoError(t, err)

	branch, ok := value.(*treefile.Node)
	require.True(t, ok)

	branch.Collapse()
	require.NoError(t, tree.Write())

	// The collapsed branch reloads through the codec and explodes back
	// into a directory with one entry per child.
	tree, err = treefile.Load(root, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	value, err = tree.Get("b")
	require.NoError(t, err)

	branch, ok = value.(*treefile.Node)
	require.True(t, ok)

	branch.Explode()
	require.NoError(t, tree.Write())

	info, err := os.Stat(filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	decoded, err := yamlcodec.Codec{}.LoadFile(filepath.Join(root, "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, "x", decoded)
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	tree := loadScenario(t, treefile.Options{})

	_, err := tree.Set("b/d", 2)
	require.NoError(t, err)

	want, err := tree.Data()
	require.NoError(t, err)

	copyRoot := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, tree.WriteTo(copyRoot))

	reloaded, err := treefile.Load(copyRoot, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	got, err := reloaded.Data()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_NilCodecIsUnimplemented(t *testing.T) {
	t.Parallel()

	tree, err := treefile.Load(scenarioRoot(t), nil, treefile.Options{})
	require.NoError(t, err)

	_, err = tree.Get("a")
	require.ErrorIs(t, err, treefile.ErrUnimplemented)
}

func TestLoad_CreatesSentinelLockFile(t *testing.T) {
	t.Parallel()

	root := scenarioRoot(t)

	_, err := treefile.Load(root, yamlcodec.Codec{}, treefile.Options{})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(filepath.Dir(root), lockfile.SentinelName))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

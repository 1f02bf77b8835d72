// pkg/grouper/grouper_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testutil.MemoryFS
// PURPOSE: Test traversal, claims, collapse and error handling

package grouper_test

import (
	"io/fs"
	"testing"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/filesystem"
	"github.com/arthur-debert/fgroup/pkg/grouper"
	"github.com/arthur-debert/fgroup/pkg/matchtree"
	"github.com/arthur-debert/fgroup/pkg/overrides"
	"github.com/arthur-debert/fgroup/pkg/testutil"
	"github.com/arthur-debert/fgroup/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileTree(t *testing.T, tree types.ConfigTree) *matchtree.Node {
	t.Helper()
	node, err := matchtree.Compile(tree)
	require.NoError(t, err)
	return node
}

func compileManual(t *testing.T, pairs ...string) *matchtree.ManualList {
	t.Helper()
	var patterns []types.ManualPattern
	for _, p := range pairs {
		mp, ok := types.ParseManualPattern(p)
		require.True(t, ok, p)
		patterns = append(patterns, mp)
	}
	list, err := matchtree.CompileManual(patterns)
	require.NoError(t, err)
	return list
}

func term(key, group string) types.ConfigEntry {
	return types.ConfigEntry{Key: key, Group: group}
}

func branch(key string, children ...types.ConfigEntry) types.ConfigEntry {
	return types.ConfigEntry{Key: key, Children: append(types.ConfigTree{}, children...)}
}

func group(t *testing.T, mfs *testutil.MemoryFS, opts grouper.Options) *grouper.Result {
	t.Helper()
	if opts.Root == "" {
		opts.Root = "/r"
	}
	opts.FS = mfs
	res, err := grouper.Group(opts)
	require.NoError(t, err)
	return res
}

func TestGroup_EmptyConfig(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.txt", "d/b.txt")

	res := group(t, mfs, grouper.Options{Tree: compileTree(t, nil)})

	assert.Equal(t, map[string][]string{types.DefaultGroup: {"."}}, res.Groups)
	assert.Equal(t, 0, mfs.ReadDirCount(), "nothing can match below the root")
}

func TestGroup_ManualPatterns(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "b.py", "c.txt", "d.md")

	res := group(t, mfs, grouper.Options{Manual: compileManual(t, "*.py:code", "*.txt:doc")})

	assert.Equal(t, map[string][]string{
		"code":             {"a.py", "b.py"},
		"doc":              {"c.txt"},
		types.DefaultGroup: {"d.md"},
	}, res.Groups)
	assert.Equal(t, []string{"code", "doc", types.DefaultGroup}, res.Order)
	assert.Empty(t, res.Errors)
}

func TestGroup_ChildBlocking(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "sub/x.py", "sub/deep/y.py", "other")
	tree := compileTree(t, types.ConfigTree{term("sub", "archived"), term("**/*.py", "code")})

	t.Run("non_distinct_blocks_descendants", func(t *testing.T) {
		res := group(t, mfs, grouper.Options{Tree: tree})

		assert.Equal(t, map[string][]string{
			"archived":         {"sub"},
			types.DefaultGroup: {"other"},
		}, res.Groups)
	})

	t.Run("distinct_classifies_independently", func(t *testing.T) {
		res := group(t, mfs, grouper.Options{Tree: tree, Distinct: true})

		assert.Equal(t, map[string][]string{
			"archived": {"sub"},
			"code":     {"sub/deep/y.py", "sub/x.py"},
		}, res.Groups)
		assert.False(t, res.Has(types.DefaultGroup))
	})
}

func TestGroup_DistinctRecursive(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r",
		"a1/a2/a3", "a1/c1/c2",
		"b1/b2/b3", "b1/c3/c4",
	)

	res := group(t, mfs, grouper.Options{
		Manual:   compileManual(t, "**/a*:as", "**/*3:3s"),
		Distinct: true,
	})

	assert.Equal(t, map[string][]string{
		"as": {"a1", "a1/a2", "a1/a2/a3"},
		"3s": {"b1/b2/b3", "b1/c3"},
	}, res.Groups)
}

func TestGroup_DistinctBranches(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "src/a", "src/b", "lib/c")

	t.Run("terminal_outranks_branch", func(t *testing.T) {
		tree := compileTree(t, types.ConfigTree{
			term("s*", "g1"),
			branch("src", term("a", "x")),
		})

		res := group(t, mfs, grouper.Options{Tree: tree, Distinct: true})

		assert.Equal(t, map[string][]string{
			"g1": {"src"},
			"x":  {"src/a"},
		}, res.Groups)
	})

	t.Run("every_matching_branch_opens", func(t *testing.T) {
		tree := compileTree(t, types.ConfigTree{
			branch("src", term("a", "x")),
			branch("s*", term("b", "y")),
		})

		res := group(t, mfs, grouper.Options{Tree: tree, Distinct: true})

		assert.Equal(t, map[string][]string{
			"x": {"src/a"},
			"y": {"src/b"},
		}, res.Groups)
	})

	t.Run("non_distinct_opens_the_winner_only", func(t *testing.T) {
		tree := compileTree(t, types.ConfigTree{
			branch("src", term("a", "x")),
			branch("s*", term("b", "y")),
		})

		res := group(t, mfs, grouper.Options{Tree: tree})

		assert.Equal(t, map[string][]string{
			"x":                {"src/a"},
			types.DefaultGroup: {"lib", "src/b"},
		}, res.Groups)
	})
}

func TestGroup_NestedBranch(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r",
		"1/2/a.txt", "1/2/b.txt", "1/3/", "1/c.txt", "x.txt",
	)
	tree := compileTree(t, types.ConfigTree{
		branch("1*",
			term("2*/a*", "a"),
			term("*", "bc"),
			term(".", "left"),
		),
	})

	res := group(t, mfs, grouper.Options{Tree: tree})

	assert.Equal(t, map[string][]string{
		"a":                {"1/2/a.txt"},
		"bc":               {"1/2/b.txt", "1/3", "1/c.txt"},
		types.DefaultGroup: {"x.txt"},
	}, res.Groups)
	assert.False(t, res.Has("left"), "a later entry never claims what earlier ones split")
}

func TestGroup_FirstListWins(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "readme.txt", "notes.txt")
	tree := compileTree(t, types.ConfigTree{term("*.txt", "text"), term("readme.txt", "readme")})

	res := group(t, mfs, grouper.Options{Tree: tree})

	assert.Equal(t, map[string][]string{"text": {"notes.txt", "readme.txt"}}, res.Groups)
}

func TestGroup_RecursiveManual(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "d/b.txt", "d/e/c.py", "d/e/f.txt")

	res := group(t, mfs, grouper.Options{Manual: compileManual(t, "**/*.py:code", "**/*.txt:doc")})

	assert.Equal(t, map[string][]string{
		"code": {"a.py", "d/e/c.py"},
		"doc":  {"d/b.txt", "d/e/f.txt"},
	}, res.Groups)
	assert.False(t, res.Has(types.DefaultGroup))
}

func TestGroup_RecursiveMatchesContextDir(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "src/a.go", "src/b/c.go", "README")
	tree := compileTree(t, types.ConfigTree{branch("src", term("**", "code"))})

	res := group(t, mfs, grouper.Options{Tree: tree})

	assert.Equal(t, map[string][]string{
		"code":             {"src"},
		types.DefaultGroup: {"README"},
	}, res.Groups)
}

func TestGroup_BranchRemainder(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "src/a.go", "src/b.go", "src/notes.md", "docs/x.md")
	tree := compileTree(t, types.ConfigTree{branch("src", term("*.go", "code"))})

	res := group(t, mfs, grouper.Options{Tree: tree})

	assert.Equal(t, map[string][]string{
		types.DefaultGroup: {"docs", "src/notes.md"},
		"code":             {"src/a.go", "src/b.go"},
	}, res.Groups)
}

func TestGroup_BranchRejectsFiles(t *testing.T) {
	tree := compileTree(t, types.ConfigTree{
		branch("src", term("*", "code")),
		term("*", "other"),
	})

	t.Run("file", func(t *testing.T) {
		mfs := testutil.NewMemoryFS().AddTree("/r", "src")
		res := group(t, mfs, grouper.Options{Tree: tree})
		assert.Equal(t, map[string][]string{"other": {"src"}}, res.Groups)
	})

	t.Run("directory", func(t *testing.T) {
		mfs := testutil.NewMemoryFS().AddTree("/r", "src/a", "b")
		res := group(t, mfs, grouper.Options{Tree: tree})
		assert.Equal(t, map[string][]string{
			"other": {"b"},
			"code":  {"src/a"},
		}, res.Groups)
	})
}

func TestGroup_Collapse(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "lib/x.txt")

	res := group(t, mfs, grouper.Options{Manual: compileManual(t, "**/*.py:code")})

	assert.Equal(t, map[string][]string{
		"code":             {"a.py"},
		types.DefaultGroup: {"lib"},
	}, res.Groups)

	// lib: one step from the root, one child listed, x.txt's step folded in.
	assert.Equal(t, 3, res.Weights.Get("lib"))
	assert.False(t, res.Weights.Has("lib/x.txt"))
}

func TestGroup_Weights(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "b.txt")

	res := group(t, mfs, grouper.Options{Manual: compileManual(t, "*.py:code")})

	// Root: one start evaluation plus one per listed child.
	assert.Equal(t, 3, res.Weights.Get("."))
	assert.Equal(t, 1, res.Weights.Get("a.py"))
	assert.Equal(t, 1, res.Weights.Get("b.txt"))

	top := res.Weights.Top(1)
	require.Len(t, top, 1)
	assert.Equal(t, ".", top[0].Path)

	for _, p := range res.Paths {
		assert.Equal(t, res.Weights.Get(p.Rel), p.Weight, p.Rel)
	}
}

func TestGroup_Overrides(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "b.md")
	tree := compileTree(t, types.ConfigTree{term("*.py", "sync")})

	res := group(t, mfs, grouper.Options{
		Tree:      tree,
		Overrides: overrides.New(map[string]string{
			"sync":             "backup",
			"backup":           "archive",
			types.DefaultGroup: "ignored",
		}),
	})

	assert.Equal(t, map[string][]string{
		"backup":           {"a.py"},
		types.DefaultGroup: {"b.md"},
	}, res.Groups)
}

func TestGroup_ManualBeatsConfig(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "b.txt")
	tree := compileTree(t, types.ConfigTree{term("*", "config")})

	res := group(t, mfs, grouper.Options{Tree: tree, Manual: compileManual(t, "*.py:manual")})

	assert.Equal(t, map[string][]string{
		"manual": {"a.py"},
		"config": {"b.txt"},
	}, res.Groups)
}

func TestGroup_Absolute(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "b.txt")

	res := group(t, mfs, grouper.Options{Manual: compileManual(t, "*.py:code"), Absolute: true})

	assert.Equal(t, map[string][]string{
		"code":             {"/r/a.py"},
		types.DefaultGroup: {"/r/b.txt"},
	}, res.Groups)
	assert.True(t, res.Weights.Has("/r"))
	assert.Equal(t, ".", res.Paths[0].Rel)
	assert.Equal(t, types.KindDir, res.Paths[0].Kind)
}

func TestGroup_PathErrors(t *testing.T) {
	mfs := testutil.NewMemoryFS().AddTree("/r", "a.py", "locked/b.py")
	mfs.WithError("/r/locked", fs.ErrPermission)

	var seen []error
	res := group(t, mfs, grouper.Options{
		Manual:  compileManual(t, "**/*.py:code"),
		OnError: func(err error) { seen = append(seen, err) },
	})

	assert.Equal(t, map[string][]string{"code": {"a.py"}}, res.Groups)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, res.Errors, seen)
	assert.True(t, errors.IsErrorCode(res.Errors[0], errors.ErrPathIO))
	assert.False(t, errors.IsFatal(res.Errors[0]))

	var locked types.PathState
	for _, p := range res.Paths {
		if p.Rel == "locked" {
			locked = p
		}
	}
	assert.Equal(t, types.KindUnreadable, locked.Kind)
	assert.Empty(t, locked.Group)
}

func TestGroup_RootErrors(t *testing.T) {
	_, err := grouper.Group(grouper.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = grouper.Group(grouper.Options{Root: "/missing", FS: testutil.NewMemoryFS()})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestGroup_Symlinks(t *testing.T) {
	newFS := func(t *testing.T) *testutil.MemoryFS {
		mfs := testutil.NewMemoryFS().AddTree("/r", "target/a.py")
		require.NoError(t, mfs.Symlink("target", "/r/ln"))
		return mfs
	}
	manual := compileManual(t, "**/*.py:code")

	t.Run("links_are_leaves", func(t *testing.T) {
		res := group(t, newFS(t), grouper.Options{Manual: manual})

		assert.Equal(t, map[string][]string{
			types.DefaultGroup: {"ln"},
			"code":             {"target/a.py"},
		}, res.Groups)
		assert.Equal(t, []string{types.DefaultGroup, "code"}, res.Order)
	})

	t.Run("followed", func(t *testing.T) {
		res := group(t, newFS(t), grouper.Options{Manual: manual, FollowSymlinks: true})

		assert.Equal(t, map[string][]string{"code": {"ln/a.py", "target/a.py"}}, res.Groups)
	})

	t.Run("cycle_is_a_leaf", func(t *testing.T) {
		mfs := newFS(t)
		require.NoError(t, mfs.Symlink("/r", "/r/target/up"))

		res := group(t, mfs, grouper.Options{Manual: manual, FollowSymlinks: true})

		assert.Equal(t, []string{"ln/a.py", "target/a.py"}, res.Group("code"))
		assert.Empty(t, res.Errors)
	})

	t.Run("broken_link", func(t *testing.T) {
		mfs := newFS(t)
		require.NoError(t, mfs.Symlink("/r/nowhere", "/r/broken"))

		res := group(t, mfs, grouper.Options{Manual: manual, FollowSymlinks: true})

		require.Len(t, res.Errors, 1)
		assert.True(t, errors.IsErrorCode(res.Errors[0], errors.ErrPathIO))
		assert.NotContains(t, res.Group(types.DefaultGroup), "broken")
	})
}

func TestGroup_AferoFS(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("/r/src", 0755))
	require.NoError(t, afero.WriteFile(mem, "/r/src/main.go", nil, 0644))
	require.NoError(t, afero.WriteFile(mem, "/r/README.md", nil, 0644))

	res, err := grouper.Group(grouper.Options{
		Root: "/r",
		FS:   filesystem.NewAferoFS(mem),
		Tree: compileTree(t, types.ConfigTree{branch("src", term("*.go", "code"))}),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{
		types.DefaultGroup: {"README.md"},
		"code":             {"src/main.go"},
	}, res.Groups)
}

// Every file lands in the group matchtree.Resolve computes for it, through
// itself or the ancestor reported in its place.
func TestGroup_AgreesWithResolve(t *testing.T) {
	paths := []string{
		"a.py", "b.txt", "src/main.go", "src/lib/util.go", "src/lib/notes.md",
		"docs/guide.md", "docs/img/logo.png", "1/2/a.txt", "1/2/b", "1/c",
	}
	trees := map[string]types.ConfigTree{
		"flat":   {term("*.py", "code"), term("docs", "doc")},
		"nested": {
			branch("src", term("lib/*.go", "lib"), term("*", "src")),
			term("*.md, *.txt", "text"),
		},
		"recursive": {
			term("**/*.md", "md"),
			branch("1*, src", term("2*/a*", "a"), term("*", "rest")),
		},
		"dot": {branch("src", term(".", "whole"), term("*.go", "never"))},
	}

	for name, config := range trees {
		t.Run(name, func(t *testing.T) {
			mfs := testutil.NewMemoryFS().AddTree("/r", paths...)
			tree := compileTree(t, config)

			res := group(t, mfs, grouper.Options{Tree: tree})

			owner := make(map[string]string)
			for g, ps := range res.Groups {
				for _, p := range ps {
					owner[p] = g
				}
			}

			for _, p := range paths {
				segs := splitSlash(p)
				want := types.DefaultGroup
				isDir := func(depth int) bool { return depth < len(segs) }
				if r, ok := matchtree.Resolve(tree, segs, 0, isDir); ok {
					want = r.Group
				}

				got, found := "", false
				for k := len(segs); k >= 0 && !found; k-- {
					key := "."
					if k > 0 {
						key = joinSlash(segs[:k])
					}
					got, found = owner[key]
				}
				require.True(t, found, "no reported ancestor for %s", p)
				assert.Equal(t, want, got, p)
			}
		})
	}
}

func splitSlash(p string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			out = append(out, p[start:i])
			start = i + 1
		}
	}
	return out
}

func joinSlash(segs []string) string {
	out := segs[0]
	for _, s := range segs[1:] {
		out += "/" + s
	}
	return out
}

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte("x = 1\n"), 0644))
	}
}

func TestFindModule(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "single.py", "pkg/__init__.py")

	t.Run("Plain Module", func(t *testing.T) {
		path, err := FindModule("single", []string{root})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "single.py"), path)
	})

	t.Run("Package Init", func(t *testing.T) {
		path, err := FindModule("pkg", []string{root})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "pkg", "__init__.py"), path)
	})

	t.Run("Dotted Name", func(t *testing.T) {
		writeFiles(t, root, "pkg/inner.py")
		path, err := FindModule("pkg.inner", []string{root})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "pkg", "inner.py"), path)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := FindModule("ghost", []string{root})
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})
}

func TestIterPackageFiles(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	writeFiles(t, root1, "pkg/__init__.py", "pkg/a.py", "pkg/sub/b.py")
	writeFiles(t, root2, "pkg/a.py", "pkg/c.py")

	files, err := IterPackageFiles("pkg", []string{root1, root2})
	require.NoError(t, err)

	var names []string
	byName := make(map[string]string)
	for _, f := range files {
		names = append(names, f.Name)
		byName[f.Name] = f.Path
	}
	assert.Equal(t, []string{"pkg", "pkg.a", "pkg.c", "pkg.sub.b"}, names)
	assert.Equal(t, filepath.Join(root1, "pkg", "a.py"), byName["pkg.a"],
		"the earliest search-path entry wins a name collision")
	assert.Equal(t, filepath.Join(root2, "pkg", "c.py"), byName["pkg.c"],
		"namespace-package halves are merged")
}

func TestIterPackageFiles_SingleModuleFallback(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "solo.py")

	files, err := IterPackageFiles("solo", []string{root})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "solo", files[0].Name)

	_, err = IterPackageFiles("ghost", []string{root})
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestIterPackageFiles_SkipsCacheDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "pkg/__init__.py", "pkg/__pycache__/a.py", "pkg/.hidden/b.py")

	files, err := IterPackageFiles("pkg", []string{root})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "pkg", files[0].Name)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"mod.py",
		"other.py",
		"pkg/__init__.py",
		"plain_dir/data.py", // no __init__.py, not a package
		"_private.py",
		"notes.txt",
	)

	t.Run("Modules And Packages", func(t *testing.T) {
		items, err := Discover(root, nil)
		require.NoError(t, err)

		var names []string
		packages := make(map[string]bool)
		for _, item := range items {
			names = append(names, item.Name)
			packages[item.Name] = item.IsPackage
		}
		assert.Equal(t, []string{"mod", "other", "pkg"}, names)
		assert.False(t, packages["mod"])
		assert.True(t, packages["pkg"])
	})

	t.Run("Excludes", func(t *testing.T) {
		items, err := Discover(root, []string{"mod*", "pkg"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "other", items[0].Name)
	})

	t.Run("Bad Pattern", func(t *testing.T) {
		_, err := Discover(root, []string{"["})
		assert.Error(t, err)
	})
}

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pydex/internal/model"
)

func TestExpand(t *testing.T) {
	api := &model.Module{
		ObjectBase: model.ObjectBase{Name: "pkg.api"},
		Members: []model.ApiObject{
			&model.Indirection{
				ObjectBase: model.ObjectBase{Name: "Widget"},
				Target:     ".core.Widget",
			},
			&model.Indirection{
				ObjectBase: model.ObjectBase{Name: "np"},
				Target:     "numpy",
			},
			&model.Function{
				ObjectBase: model.ObjectBase{Name: "make"},
				Args: []model.Argument{
					{Name: "w", Type: model.Positional, Datatype: "Optional[Widget]"},
					{Name: "n", Type: model.Positional, Datatype: "np.ndarray"},
				},
				ReturnType: "Widget",
				Decorations: []model.Decoration{
					{Name: "validate"},
				},
			},
			&model.Function{
				ObjectBase: model.ObjectBase{Name: "validate"},
			},
			&model.Class{
				ObjectBase: model.ObjectBase{Name: "Panel"},
				Bases:      []string{"Widget"},
			},
		},
	}
	model.SyncHierarchy(api)
	Expand([]*model.Module{api})

	fn := model.Member(api, "make").(*model.Function)
	assert.Equal(t, "pkg.core.Widget", fn.ReturnType,
		"relative import targets resolve against the importing module")
	assert.Equal(t, "Optional[pkg.core.Widget]", fn.Args[0].Datatype,
		"only the resolvable identifier inside the expression is rewritten")
	assert.Equal(t, "numpy.ndarray", fn.Args[1].Datatype,
		"attribute names after the dot are left alone")
	assert.Equal(t, "pkg.api.validate", fn.Decorations[0].Name)

	cls := model.Member(api, "Panel").(*model.Class)
	assert.Equal(t, []string{"pkg.core.Widget"}, cls.Bases)
}

func TestExpand_LeavesUnknownNames(t *testing.T) {
	mod := &model.Module{
		ObjectBase: model.ObjectBase{Name: "m"},
		Members: []model.ApiObject{
			&model.Variable{
				ObjectBase: model.ObjectBase{Name: "x"},
				Datatype:   "Mystery['quoted Widget']",
			},
		},
	}
	model.SyncHierarchy(mod)
	Expand([]*model.Module{mod})
	v := mod.Members[0].(*model.Variable)
	assert.Equal(t, "Mystery['quoted Widget']", v.Datatype,
		"unknown names and string literal contents stay untouched")
}

func TestAbsoluteTarget(t *testing.T) {
	assert.Equal(t, "os.path", absoluteTarget("pkg.api", "os.path", false))
	assert.Equal(t, "pkg.core.Widget", absoluteTarget("pkg.api", ".core.Widget", false))
	assert.Equal(t, "core.Widget", absoluteTarget("pkg.api", "..core.Widget", false))
	assert.Equal(t, "pkg", absoluteTarget("pkg.api", ".", false))
	// More dots than package levels cannot be resolved.
	assert.Equal(t, "...x", absoluteTarget("pkg.api", "...x", false))

	// In a package __init__ the module name is the package itself, so the
	// first dot climbs nothing.
	assert.Equal(t, "pkg.core", absoluteTarget("pkg", ".core", true))
	assert.Equal(t, "pkg", absoluteTarget("pkg", ".", true))
	assert.Equal(t, "pkg.sub.util", absoluteTarget("pkg.sub", ".util", true))
	assert.Equal(t, "pkg.util", absoluteTarget("pkg.sub", "..util", true))
	assert.Equal(t, "...x", absoluteTarget("pkg", "...x", true))
}

func TestExpand_PackageInit(t *testing.T) {
	pkg := &model.Module{
		ObjectBase: model.ObjectBase{
			Name:     "pkg",
			Location: model.Location{Filename: "pkg/__init__.py"},
		},
		Members: []model.ApiObject{
			&model.Indirection{
				ObjectBase: model.ObjectBase{Name: "Widget"},
				Target:     ".core.Widget",
			},
			&model.Function{
				ObjectBase: model.ObjectBase{Name: "make"},
				ReturnType: "Widget",
			},
		},
	}
	model.SyncHierarchy(pkg)
	Expand([]*model.Module{pkg})

	fn := model.Member(pkg, "make").(*model.Function)
	assert.Equal(t, "pkg.core.Widget", fn.ReturnType,
		"an __init__ module resolves one leading dot to the package itself")
}

func exportVar(value string, augmented bool) *model.Variable {
	v := &model.Variable{
		ObjectBase: model.ObjectBase{Name: "__all__"},
		Value:      value,
	}
	if augmented {
		v.Modifiers = []string{"+="}
	}
	return v
}

func TestFoldExports(t *testing.T) {
	t.Run("Append And Dedupe", func(t *testing.T) {
		mod := &model.Module{
			ObjectBase: model.ObjectBase{Name: "m"},
			Members: []model.ApiObject{
				exportVar("['a', 'b']", false),
				&model.Function{ObjectBase: model.ObjectBase{Name: "a"}},
				exportVar("['b', 'c']", true),
			},
		}
		model.SyncHierarchy(mod)
		FoldExports(mod)

		require.Len(t, mod.Members, 2)
		v, ok := model.Member(mod, "__all__").(*model.Variable)
		require.True(t, ok)
		assert.Equal(t, "['a', 'b', 'c']", v.Value)
		assert.Nil(t, v.Modifiers)
		assert.Same(t, mod, v.Parent().(*model.Module))
	})

	t.Run("Reassignment Resets", func(t *testing.T) {
		mod := &model.Module{
			ObjectBase: model.ObjectBase{Name: "m"},
			Members: []model.ApiObject{
				exportVar("['a']", false),
				exportVar("['b']", true),
				exportVar("['c']", false),
				exportVar("('d',)", true),
			},
		}
		model.SyncHierarchy(mod)
		FoldExports(mod)

		v := model.Member(mod, "__all__").(*model.Variable)
		assert.Equal(t, "['c', 'd']", v.Value)
	})

	t.Run("Single Assignment Untouched", func(t *testing.T) {
		mod := &model.Module{
			ObjectBase: model.ObjectBase{Name: "m"},
			Members:    []model.ApiObject{exportVar("['a']", false)},
		}
		FoldExports(mod)
		v := mod.Members[0].(*model.Variable)
		assert.Equal(t, "['a']", v.Value)
	})

	t.Run("Non Literal Value Aborts", func(t *testing.T) {
		mod := &model.Module{
			ObjectBase: model.ObjectBase{Name: "m"},
			Members: []model.ApiObject{
				exportVar("['a']", false),
				exportVar("compute_names()", true),
			},
		}
		FoldExports(mod)
		assert.Len(t, mod.Members, 2, "a non-literal export list disables folding")
	})
}

func TestParseStringList(t *testing.T) {
	names, ok := parseStringList(`['a', "b", 'c',]`)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	names, ok = parseStringList(`('x',)`)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, names)

	names, ok = parseStringList(`[]`)
	require.True(t, ok)
	assert.Empty(t, names)

	_, ok = parseStringList(`[func()]`)
	assert.False(t, ok)
	_, ok = parseStringList(`{'a'}`)
	assert.False(t, ok)
}

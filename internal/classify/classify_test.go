package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func classifyClasses(t *testing.T, moduleClasses, monolithicSignatures []string) Result {
	t.Helper()
	tr, err := BuildTrie(moduleClasses, monolithicSignatures)
	require.NoError(t, err)
	return Packages(tr, zap.NewNop())
}

func TestSplitPackage(t *testing.T) {
	res := classifyClasses(t,
		[]string{"La/b/C"},
		[]string{"La/b/D;->m()V", "La/b/E;->m()V"})

	expected := Result{SplitPackages: []string{"a.b"}}
	assert.Empty(t, cmp.Diff(expected, res))
}

func TestPackagePrefix(t *testing.T) {
	// a/b/c is wholly the module's; a/b/x belongs to another contributor, so
	// the prefix lands on a.b.c rather than further up.
	res := classifyClasses(t,
		[]string{"La/b/c/D", "La/b/c/sub/E"},
		[]string{"La/b/x/F;->m()V"})

	expected := Result{PackagePrefixes: []string{"a.b.c"}}
	assert.Empty(t, cmp.Diff(expected, res))
}

func TestUncontestedModuleBecomesTopLevelPrefix(t *testing.T) {
	// No other contributor anywhere under the module's top-level package:
	// the classification stops at the highest uniformly owned node.
	res := classifyClasses(t, []string{"La/b/c/D"}, nil)

	expected := Result{PackagePrefixes: []string{"a"}}
	assert.Empty(t, cmp.Diff(expected, res))
}

func TestSinglePackage(t *testing.T) {
	// The package's own classes are all the module's, but a sub-package is
	// contested, so only a non-recursive pattern applies at this level.
	res := classifyClasses(t,
		[]string{"La/b/C", "La/b/sub/D"},
		[]string{"La/b/sub/E;->m()V"})

	expected := Result{
		SinglePackages: []string{"a.b"},
		SplitPackages:  []string{"a.b.sub"},
	}
	assert.Empty(t, cmp.Diff(expected, res))
}

func TestOtherOwnedSubtreeRecordsNothing(t *testing.T) {
	// a/other is entirely someone else's; only a/mine is classified.
	res := classifyClasses(t,
		[]string{"La/mine/C"},
		[]string{"La/other/D;->m()V"})

	expected := Result{PackagePrefixes: []string{"a.mine"}}
	assert.Empty(t, cmp.Diff(expected, res))
}

func TestMonolithicClassesOutsideModuleNamespacesIgnored(t *testing.T) {
	// Classes under top-level namespaces the module never touches must not
	// influence classification at all.
	res := classifyClasses(t,
		[]string{"La/b/C"},
		[]string{"Lz/z/Z;->m()V"})

	expected := Result{PackagePrefixes: []string{"a"}}
	assert.Empty(t, cmp.Diff(expected, res))
}

func TestNestedClassesCountAsTheirOuterPackage(t *testing.T) {
	res := classifyClasses(t,
		[]string{"La/b/C", "La/b/C$Inner"},
		[]string{"La/b/D;->m()V", "La/b/D$Inner;->m()V"})

	expected := Result{SplitPackages: []string{"a.b"}}
	assert.Empty(t, cmp.Diff(expected, res))
}

func TestBuildTrieDeduplicatesMonolithicClasses(t *testing.T) {
	// Two members of one monolithic class must not trip the duplicate
	// signature check.
	_, err := BuildTrie(
		[]string{"La/b/C"},
		[]string{"La/b/D;->m()V", "La/b/D;->n()V"})
	require.NoError(t, err)
}

func TestBuildTrieSkipsModuleClassesInMonolithic(t *testing.T) {
	// The module's own classes also appear in the monolithic flags and must
	// keep their module provenance.
	res := classifyClasses(t,
		[]string{"La/b/C"},
		[]string{"La/b/C;->m()V"})

	expected := Result{PackagePrefixes: []string{"a"}}
	assert.Empty(t, cmp.Diff(expected, res))
}

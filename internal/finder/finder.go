package finder

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/tender-barbarian/go-describe/internal/indexer"
	"github.com/tender-barbarian/go-describe/internal/symtab"
)

// MatchMode controls how type names are compared in FindType.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchPrefix   MatchMode = "prefix"
	MatchContains MatchMode = "contains"
)

func matchesQuery(symbolName, query string, mode MatchMode) bool {
	switch mode {
	case MatchPrefix:
		return strings.HasPrefix(symbolName, query)
	case MatchContains:
		return strings.Contains(symbolName, query)
	default:
		return symbolName == query
	}
}

// Finder queries an Indexer for types and their descriptions across indexed packages.
type Finder struct {
	idx *indexer.Indexer
}

// New creates a Finder backed by the given Indexer.
func New(idx *indexer.Indexer) *Finder {
	return &Finder{idx: idx}
}

// FindType searches for named types matching name across all indexed packages.
// mode controls how name is compared: exact (default), prefix, or contains.
// Results are sorted by package and name.
func (f *Finder) FindType(name string, mode MatchMode) []symtab.TypeRef {
	return f.collect(func(t *symtab.TypeInfo) bool {
		return matchesQuery(t.Name, name, mode)
	})
}

// DescribedTypes returns every type carrying a description directive.
func (f *Finder) DescribedTypes() []symtab.TypeRef {
	return f.collect((*symtab.TypeInfo).Described)
}

// Invalid returns the described types whose directives have problems.
func (f *Finder) Invalid() []symtab.TypeInfo {
	var out []symtab.TypeInfo
	for _, pkg := range f.GetPackages() {
		for _, t := range pkg.Types {
			if len(t.Problems) > 0 {
				out = append(out, t)
			}
		}
	}
	return out
}

func (f *Finder) collect(keep func(*symtab.TypeInfo) bool) []symtab.TypeRef {
	var refs []symtab.TypeRef
	for _, pkg := range f.idx.PkgInfos() {
		for i := range pkg.Types {
			t := &pkg.Types[i]
			if !keep(t) {
				continue
			}
			refs = append(refs, refOf(pkg, t))
		}
	}
	slices.SortFunc(refs, func(a, b symtab.TypeRef) int {
		return cmp.Or(cmp.Compare(a.Package, b.Package), cmp.Compare(a.Name, b.Name))
	})
	return refs
}

func refOf(pkg *symtab.PackageInfo, t *symtab.TypeInfo) symtab.TypeRef {
	return symtab.TypeRef{
		Name:      t.Name,
		Package:   pkg.ImportPath,
		Kind:      t.Kind,
		Described: t.Described(),
		Problems:  len(t.Problems),
		Location:  t.Location,
	}
}

// GetType returns the named type of a package.
func (f *Finder) GetType(pkgPath, name string) (*symtab.TypeInfo, error) {
	pkg, ok := f.GetPackage(pkgPath)
	if !ok {
		return nil, fmt.Errorf("package %q not found in index", pkgPath)
	}
	for i := range pkg.Types {
		if pkg.Types[i].Name == name {
			return &pkg.Types[i], nil
		}
	}
	return nil, fmt.Errorf("type %q not found in package %q", name, pkgPath)
}

// GetPackages returns all indexed packages sorted by import path.
func (f *Finder) GetPackages() []*symtab.PackageInfo {
	pkgs := f.idx.PkgInfos()
	result := make([]*symtab.PackageInfo, 0, len(pkgs))
	for _, p := range pkgs {
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b *symtab.PackageInfo) int {
		return cmp.Compare(a.ImportPath, b.ImportPath)
	})
	return result
}

// Root returns the absolute root directory of the index.
func (f *Finder) Root() string {
	return f.idx.Root()
}

// HasProblems reports whether any indexed type has an invalid description.
func (f *Finder) HasProblems() bool {
	return f.idx.HasProblems()
}

// GetPackage returns a package by import path.
func (f *Finder) GetPackage(importPath string) (*symtab.PackageInfo, bool) {
	p, ok := f.idx.PkgInfos()[importPath]
	return p, ok
}

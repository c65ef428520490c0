package indexer

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/tender-barbarian/go-describe/internal/symtab"
	"github.com/tender-barbarian/go-describe/pkg/describe"
)

const (
	fieldsDirective  = "describe:fields"
	methodsDirective = "describe:methods"
)

// Indexer holds the type-checked index of the named types of a Go codebase
// and the description directives they carry.
type Indexer struct {
	root     string
	fset     *token.FileSet
	pkgInfos map[string]*symtab.PackageInfo
	logger   *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets the logger used while indexing.
func WithLogger(l *zap.Logger) Option {
	return func(idx *Indexer) {
		if l != nil {
			idx.logger = l
		}
	}
}

// PkgInfos returns the map of all indexed packages keyed by import path.
func (idx *Indexer) PkgInfos() map[string]*symtab.PackageInfo {
	return idx.pkgInfos
}

// Root returns the absolute root directory of the index.
func (idx *Indexer) Root() string {
	return idx.root
}

// New creates an Indexer rooted at rootPath. Call Index to load and scan packages.
func New(rootPath string, opts ...Option) (*Indexer, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	idx := &Indexer{root: absRoot, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// Index loads all packages under the root and rebuilds the type index.
// It can be called again to re-scan after source changes.
func (idx *Indexer) Index() error {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedImports,
		Dir:  idx.root,
		Fset: fset,
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}

	idx.fset = fset
	idx.pkgInfos = make(map[string]*symtab.PackageInfo, len(pkgs))

	for _, pkg := range pkgs {
		for _, perr := range pkg.Errors {
			idx.logger.Warn("package error", zap.String("package", pkg.PkgPath), zap.String("error", perr.Error()))
		}
		if pkg.Types == nil {
			continue
		}
		// Only index packages whose source files live under the root directory.
		if len(pkg.GoFiles) > 0 && isUnderRoot(pkg.GoFiles[0], idx.root) {
			idx.indexPackage(pkg)
		}
	}

	idx.logger.Info("indexed packages", zap.String("root", idx.root), zap.Int("packages", len(idx.pkgInfos)))
	return nil
}

// indexPackage processes a single package and adds it to the index.
func (idx *Indexer) indexPackage(pkg *packages.Package) {
	docs := idx.buildDocMap(pkg.Syntax)
	fieldDocs := idx.buildFieldDocMap(pkg.Syntax)
	directives := idx.buildDirectiveMap(pkg.Syntax)

	dir := ""
	if len(pkg.GoFiles) > 0 {
		dir = filepath.Dir(pkg.GoFiles[0])
	}

	files := make([]string, len(pkg.GoFiles))
	copy(files, pkg.GoFiles)

	info := &symtab.PackageInfo{
		ImportPath: pkg.PkgPath,
		Name:       pkg.Name,
		Dir:        dir,
		Files:      files,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		ti := idx.typeInfo(tn, pkg, docs, fieldDocs)
		ti.Directive = directives[tn.Pos()]
		ti.Problems = check(&ti)
		if len(ti.Problems) > 0 {
			idx.logger.Debug("invalid description", zap.String("type", pkg.PkgPath+"."+ti.Name), zap.Strings("problems", ti.Problems))
		}
		info.Types = append(info.Types, ti)
	}

	idx.pkgInfos[pkg.PkgPath] = info
}

// funcInfo extracts symtab.FuncInfo from a *types.Func.
func (idx *Indexer) funcInfo(fn *types.Func, pkgPath string, docs map[token.Pos]string) symtab.FuncInfo {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return symtab.FuncInfo{}
	}
	pos := idx.fset.Position(fn.Pos())
	return symtab.FuncInfo{
		Name:      fn.Name(),
		Package:   pkgPath,
		Receiver:  idx.receiverString(sig),
		Signature: idx.buildSignature(fn.Name(), sig.Recv(), sig),
		Doc:       docs[fn.Pos()],
		Location:  symtab.Location{File: pos.Filename, Line: pos.Line},
	}
}

// typeInfo extracts symtab.TypeInfo from a *types.TypeName.
func (idx *Indexer) typeInfo(tn *types.TypeName, pkg *packages.Package, docs, fieldDocs map[token.Pos]string) symtab.TypeInfo {
	pos := idx.fset.Position(tn.Pos())
	ti := symtab.TypeInfo{
		Name:     tn.Name(),
		Package:  pkg.PkgPath,
		Doc:      docs[tn.Pos()],
		Location: symtab.Location{File: pos.Filename, Line: pos.Line},
	}

	named, ok := tn.Type().(*types.Named)
	if !ok || tn.IsAlias() {
		ti.Kind = symtab.TypeKindAlias
		return ti
	}
	ti.Generic = named.TypeParams().Len() > 0

	switch u := named.Underlying().(type) {
	case *types.Struct:
		ti.Kind = symtab.TypeKindStruct
		ti.Fields = idx.structFields(u, fieldDocs)
		ti.Methods = idx.namedMethods(named, pkg.PkgPath, docs)
	case *types.Interface:
		ti.Kind = symtab.TypeKindInterface
		ti.Methods = idx.interfaceMethods(u, pkg.PkgPath, docs)
	default:
		ti.Kind = symtab.TypeKindOther
		ti.Methods = idx.namedMethods(named, pkg.PkgPath, docs)
	}

	return ti
}

// structFields lists a struct's fields in declaration order. Embedded fields
// are fields named after their type, as reflect reports them.
func (idx *Indexer) structFields(s *types.Struct, fieldDocs map[token.Pos]string) []symtab.FieldInfo {
	fields := make([]symtab.FieldInfo, 0, s.NumFields())
	for i := range s.NumFields() {
		f := s.Field(i)
		fields = append(fields, symtab.FieldInfo{
			Name:     f.Name(),
			Type:     types.TypeString(f.Type(), nil),
			Tag:      s.Tag(i),
			Comment:  fieldDocs[f.Pos()],
			Embedded: f.Anonymous(),
			Exported: f.Exported(),
		})
	}
	return fields
}

// namedMethods returns all methods on a named type, including promoted ones.
// Promoted methods (accessed through an embedded field) are marked with IsPromoted=true.
// types.MethodSet stores selections sorted by method name, so iteration order is deterministic.
func (idx *Indexer) namedMethods(named *types.Named, pkgPath string, docs map[token.Pos]string) []symtab.FuncInfo {
	mset := types.NewMethodSet(types.NewPointer(named))
	result := make([]symtab.FuncInfo, 0, mset.Len())
	for sel := range mset.Methods() {
		fn, ok := sel.Obj().(*types.Func)
		if !ok {
			continue
		}
		fi := idx.funcInfo(fn, pkgPath, docs)
		if len(sel.Index()) > 1 {
			fi.IsPromoted = true
		}
		result = append(result, fi)
	}
	return result
}

// interfaceMethods returns the explicitly declared methods of an interface type.
func (idx *Indexer) interfaceMethods(iface *types.Interface, pkgPath string, docs map[token.Pos]string) []symtab.FuncInfo {
	result := make([]symtab.FuncInfo, 0, iface.NumExplicitMethods())
	for m := range iface.ExplicitMethods() {
		result = append(result, idx.funcInfo(m, pkgPath, docs))
	}
	return result
}

// receiverString returns the type string of a method receiver, or empty for plain functions.
func (idx *Indexer) receiverString(sig *types.Signature) string {
	recv := sig.Recv()
	if recv == nil {
		return ""
	}
	return types.TypeString(recv.Type(), nil)
}

// isUnderRoot reports whether path is within root (both should be absolute).
func isUnderRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

// buildSignature formats a function or method signature as a Go source string.
func (idx *Indexer) buildSignature(name string, recv *types.Var, sig *types.Signature) string {
	// types.TypeString gives "func(params) results"; reuse everything after "func"
	rest := types.TypeString(sig, nil)[len("func"):]

	if recv == nil {
		return "func " + name + rest
	}

	recvType := types.TypeString(recv.Type(), nil)
	if recv.Name() == "" || recv.Name() == "_" {
		return "func (" + recvType + ") " + name + rest
	}
	return "func (" + recv.Name() + " " + recvType + ") " + name + rest
}

// buildDocMap extracts doc comments for type and method declarations, keyed by the name's position.
func (idx *Indexer) buildDocMap(files []*ast.File) map[token.Pos]string {
	docs := make(map[token.Pos]string)
	for _, f := range files {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Doc != nil {
					docs[d.Name.Pos()] = strings.TrimSpace(d.Doc.Text())
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					s, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					if doc := idx.specDoc(s.Doc, d.Doc, len(d.Specs)); doc != "" {
						docs[s.Name.Pos()] = doc
					}
				}
			}
		}
	}
	return docs
}

// buildFieldDocMap extracts comments for struct fields, keyed by field name position.
func (idx *Indexer) buildFieldDocMap(files []*ast.File) map[token.Pos]string {
	docs := make(map[token.Pos]string)
	for _, f := range files {
		ast.Inspect(f, func(n ast.Node) bool {
			field, ok := n.(*ast.Field)
			if !ok {
				return true
			}
			comment := ""
			if field.Doc != nil {
				comment = strings.TrimSpace(field.Doc.Text())
			} else if field.Comment != nil {
				comment = strings.TrimSpace(field.Comment.Text())
			}
			if comment != "" {
				for _, name := range field.Names {
					docs[name.Pos()] = comment
				}
			}
			return true
		})
	}
	return docs
}

// buildDirectiveMap collects the description directives of type declarations,
// keyed by the type name's position. CommentGroup.Text drops directive lines,
// so the raw comments are scanned.
func (idx *Indexer) buildDirectiveMap(files []*ast.File) map[token.Pos]*symtab.Directive {
	out := make(map[token.Pos]*symtab.Directive)
	for _, f := range files {
		for _, decl := range f.Decls {
			d, ok := decl.(*ast.GenDecl)
			if !ok || d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				s := spec.(*ast.TypeSpec)
				doc := s.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				if dir := parseDirectives(doc); dir != nil {
					pos := idx.fset.Position(s.Pos())
					dir.Location = symtab.Location{File: pos.Filename, Line: pos.Line}
					out[s.Name.Pos()] = dir
				}
			}
		}
	}
	return out
}

// specDoc returns the doc comment for a spec within a GenDecl.
// It prefers the spec's own doc, falling back to the group doc for single-spec decls.
func (idx *Indexer) specDoc(specDoc, groupDoc *ast.CommentGroup, specCount int) string {
	if specDoc != nil {
		return strings.TrimSpace(specDoc.Text())
	}
	if groupDoc != nil && specCount == 1 {
		return strings.TrimSpace(groupDoc.Text())
	}
	return ""
}

// parseDirectives reads //describe:fields and //describe:methods lines.
// Names are separated by spaces or commas. It returns nil when the group
// carries neither directive.
func parseDirectives(doc *ast.CommentGroup) *symtab.Directive {
	if doc == nil {
		return nil
	}
	var dir *symtab.Directive
	for _, c := range doc.List {
		kind, names, ok := parseDirective(c.Text)
		if !ok {
			continue
		}
		if dir == nil {
			dir = &symtab.Directive{}
		}
		switch kind {
		case fieldsDirective:
			dir.HasFields = true
			dir.Fields = append(dir.Fields, names...)
		case methodsDirective:
			dir.HasMethods = true
			dir.Methods = append(dir.Methods, names...)
		}
	}
	if dir != nil && dir.HasFields && len(dir.Fields) == 0 {
		dir.AllFields = true
	}
	return dir
}

// parseDirective splits one comment line into a directive kind and its names.
func parseDirective(line string) (kind string, names []string, ok bool) {
	text, found := strings.CutPrefix(line, "//")
	if !found {
		return "", nil, false
	}
	for _, k := range []string{fieldsDirective, methodsDirective} {
		rest, found := strings.CutPrefix(text, k)
		if !found || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		names = strings.FieldsFunc(rest, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		return k, names, true
	}
	return "", nil, false
}

// check validates a type's directives against its declaration and returns
// one message per problem.
func check(ti *symtab.TypeInfo) []string {
	d := ti.Directive
	if d == nil {
		return nil
	}
	var errs []error
	if ti.Generic {
		errs = append(errs, fmt.Errorf("%s: generic types cannot be registered from directives", ti.Name))
	}
	if d.HasFields {
		if ti.Kind != symtab.TypeKindStruct {
			errs = append(errs, fmt.Errorf("%s: fields directive on a non-struct type", ti.Name))
		} else if err := describe.ValidateFieldNames(ti.Name, ti.DeclaredFields(), ti.FieldNames()); err != nil {
			errs = append(errs, err)
		}
	}
	if d.HasMethods {
		if err := describe.ValidateMethodNames(ti.Name, d.Methods, exportedMethods(ti)); err != nil {
			errs = append(errs, err)
		}
	}
	return messages(errors.Join(errs...))
}

// exportedMethods returns the method names reflection can see at run time.
func exportedMethods(ti *symtab.TypeInfo) []string {
	var out []string
	for _, name := range ti.MethodNames() {
		if token.IsExported(name) {
			out = append(out, name)
		}
	}
	return out
}

// messages flattens joined errors into one message each.
func messages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, messages(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

// HasProblems reports whether any indexed type has an invalid description.
func (idx *Indexer) HasProblems() bool {
	for _, p := range idx.pkgInfos {
		if len(p.Problems()) > 0 {
			return true
		}
	}
	return false
}

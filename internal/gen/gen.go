// Package gen renders describe registrations from the directives found by
// the indexer, one file per package.
package gen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"github.com/tender-barbarian/go-describe/internal/symtab"
)

const (
	// DefaultOutput is the name of the generated file in each package directory.
	DefaultOutput = "zz_describe.go"
	// DescribeImportPath is the import path of the runtime package the
	// generated code registers with.
	DescribeImportPath = "github.com/tender-barbarian/go-describe/pkg/describe"

	templateName = "register.go.tmpl"
)

// ErrProblems is returned for packages whose directives do not validate.
var ErrProblems = errors.New("package has invalid descriptions")

//go:embed templates/*
var templatesFS embed.FS

var registerTemplate = template.Must(template.New(templateName).Funcs(template.FuncMap{
	"quoteList": quoteList,
}).ParseFS(templatesFS, "templates/"+templateName))

type typeData struct {
	Name       string
	HasFields  bool
	Fields     []string
	HasMethods bool
	Methods    []string
}

type fileData struct {
	Package    string
	ImportPath string
	Types      []typeData
}

// Generate renders the registration file of pkg. It returns nil when the
// package has no described types and ErrProblems when any directive is invalid.
func Generate(pkg *symtab.PackageInfo) ([]byte, error) {
	if problems := pkg.Problems(); len(problems) > 0 {
		return nil, fmt.Errorf("generating %s: %w:\n  %s", pkg.ImportPath, ErrProblems, strings.Join(problems, "\n  "))
	}

	data := fileData{Package: pkg.Name, ImportPath: DescribeImportPath}
	for _, t := range pkg.Types {
		if !t.Described() {
			continue
		}
		data.Types = append(data.Types, typeData{
			Name:       t.Name,
			HasFields:  t.Directive.HasFields,
			Fields:     t.DeclaredFields(),
			HasMethods: t.Directive.HasMethods,
			Methods:    t.Directive.Methods,
		})
	}
	if len(data.Types) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := registerTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", pkg.ImportPath, err)
	}

	formatted, err := imports.Process(DefaultOutput, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", pkg.ImportPath, err)
	}
	return formatted, nil
}

// Writer writes generated files next to the package sources.
type Writer struct {
	// Output is the file name written in each package directory.
	Output string
	// DryRun reports the files without writing them.
	DryRun bool
	Logger *zap.Logger
}

// WriteAll generates every package and returns the paths of the files it
// wrote. Packages with problems are skipped and their errors joined.
func (w *Writer) WriteAll(pkgs []*symtab.PackageInfo) ([]string, error) {
	output := w.Output
	if output == "" {
		output = DefaultOutput
	}
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var written []string
	var errs []error
	for _, pkg := range pkgs {
		src, err := Generate(pkg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if src == nil {
			continue
		}
		path := filepath.Join(pkg.Dir, output)
		if !w.DryRun {
			if err := os.WriteFile(path, src, 0o644); err != nil {
				errs = append(errs, fmt.Errorf("writing %s: %w", path, err))
				continue
			}
		}
		logger.Info("generated registrations", zap.String("package", pkg.ImportPath), zap.String("file", path), zap.Bool("dry_run", w.DryRun))
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, ", ")
}

package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-describe/internal/finder"
	"github.com/tender-barbarian/go-describe/internal/gen"
)

// listPackagesHandler returns a handler for the list_packages tool.
// It lists all indexed packages, optionally filtered by import-path prefix.
func listPackagesHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := req.GetString("filter", "")

		type pkgSummary struct {
			ImportPath     string `json:"import_path"`
			Name           string `json:"name"`
			Dir            string `json:"dir"`
			FileCount      int    `json:"file_count"`
			TypeCount      int    `json:"type_count"`
			DescribedCount int    `json:"described_count"`
			ProblemCount   int    `json:"problem_count"`
		}

		pkgs := f.GetPackages()
		results := make([]pkgSummary, 0, len(pkgs))
		for _, p := range pkgs {
			if filter != "" && !strings.HasPrefix(p.ImportPath, filter) {
				continue
			}
			described := 0
			for i := range p.Types {
				if p.Types[i].Described() {
					described++
				}
			}
			results = append(results, pkgSummary{
				ImportPath:     p.ImportPath,
				Name:           p.Name,
				Dir:            p.Dir,
				FileCount:      len(p.Files),
				TypeCount:      len(p.Types),
				DescribedCount: described,
				ProblemCount:   len(p.Problems()),
			})
		}
		return jsonResult(results)
	}
}

// previewRegistrationHandler returns a handler for the preview_registration tool.
// It renders the generated registration file of a package without writing it.
func previewRegistrationHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pkgPath, err := req.RequireString("package")
		if err != nil {
			return nil, err
		}

		pkg, ok := f.GetPackage(pkgPath)
		if !ok {
			return nil, fmt.Errorf("package %q not found", pkgPath)
		}

		src, err := gen.Generate(pkg)
		if errors.Is(err, gen.ErrProblems) {
			// problems are an answer, not a tool failure
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, err
		}
		if src == nil {
			return mcp.NewToolResultText(fmt.Sprintf("package %q has no described types", pkgPath)), nil
		}
		return mcp.NewToolResultText(string(src)), nil
	}
}

package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-describe/internal/finder"
	"github.com/tender-barbarian/go-describe/internal/symtab"
)

// findTypeHandler returns a handler for the find_type tool.
// It searches for a type name across all indexed packages, optionally
// restricted to described types.
func findTypeHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		match := finder.MatchMode(req.GetString("match", string(finder.MatchExact)))
		describedOnly := req.GetBool("described_only", false)

		refs := f.FindType(name, match)
		if describedOnly {
			filtered := make([]symtab.TypeRef, 0, len(refs))
			for _, r := range refs {
				if r.Described {
					filtered = append(filtered, r)
				}
			}
			refs = filtered
		}
		return jsonResult(refs)
	}
}

// getTypeHandler returns a handler for the get_type tool.
// It returns the full definition of a named type including its directive
// and the problems found validating it.
func getTypeHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pkgPath, err := req.RequireString("package")
		if err != nil {
			return nil, err
		}
		name, err := req.RequireString("name")
		if err != nil {
			return nil, err
		}
		includeUnexported := req.GetBool("include_unexported", true)

		t, err := f.GetType(pkgPath, name)
		if err != nil {
			return nil, err
		}
		out := *t
		out.Fields = filterFields(t.Fields, includeUnexported)
		out.Methods = filterFuncs(t.Methods, includeUnexported)
		return jsonResult(out)
	}
}

// checkDescriptionsHandler returns a handler for the check_descriptions tool.
// It reports every described type with its problems; valid types carry none.
func checkDescriptionsHandler(f *finder.Finder) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prefix := req.GetString("package", "")

		type typeCheck struct {
			Package  string          `json:"package"`
			Name     string          `json:"name"`
			Valid    bool            `json:"valid"`
			Problems []string        `json:"problems,omitempty"`
			Location symtab.Location `json:"location"`
		}
		type report struct {
			Checked int         `json:"checked"`
			Invalid int         `json:"invalid"`
			Types   []typeCheck `json:"types"`
		}

		res := report{Types: []typeCheck{}}
		for _, ref := range f.DescribedTypes() {
			if prefix != "" && !strings.HasPrefix(ref.Package, prefix) {
				continue
			}
			t, err := f.GetType(ref.Package, ref.Name)
			if err != nil {
				return nil, err
			}
			res.Checked++
			if len(t.Problems) > 0 {
				res.Invalid++
			}
			res.Types = append(res.Types, typeCheck{
				Package:  ref.Package,
				Name:     ref.Name,
				Valid:    len(t.Problems) == 0,
				Problems: t.Problems,
				Location: t.Location,
			})
		}
		return jsonResult(res)
	}
}

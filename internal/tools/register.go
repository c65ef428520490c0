package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-describe/internal/finder"
)

// Register wires all description MCP tools to s.
// Each tool delegates to f for querying the indexed codebase.
func Register(s *server.MCPServer, f *finder.Finder) {
	s.AddTool(mcp.NewTool("list_packages",
		mcp.WithDescription("Lists all indexed packages with type and description counts."),
		mcp.WithString("filter", mcp.Description("Optional prefix filter on import path")),
	), withLengthCheck(listPackagesHandler(f)))

	s.AddTool(mcp.NewTool("find_type",
		mcp.WithDescription("Searches for a named type across the entire indexed codebase."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Type name")),
		mcp.WithString("match", mcp.Description(`Match mode: "exact" (default), "prefix", or "contains"`)),
		mcp.WithBoolean("described_only", mcp.Description("Only return types carrying describe directives (default: false)")),
	), withLengthCheck(findTypeHandler(f)))

	s.AddTool(mcp.NewTool("get_type",
		mcp.WithDescription("Returns the definition of a type: fields, methods, directives and validation problems."),
		mcp.WithString("package", mcp.Required(), mcp.Description("Package import path")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Type name")),
		mcp.WithBoolean("include_unexported", mcp.Description("Include unexported fields and methods (default: true)")),
	), withLengthCheck(getTypeHandler(f)))

	s.AddTool(mcp.NewTool("check_descriptions",
		mcp.WithDescription("Validates every //describe:fields and //describe:methods directive and lists the problems found."),
		mcp.WithString("package", mcp.Description("Optional import path prefix to restrict the check")),
	), withLengthCheck(checkDescriptionsHandler(f)))

	s.AddTool(mcp.NewTool("preview_registration",
		mcp.WithDescription("Renders the registration code describe gen would write for a package."),
		mcp.WithString("package", mcp.Required(), mcp.Description("Package import path")),
	), withLengthCheck(previewRegistrationHandler(f)))
}

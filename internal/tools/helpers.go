package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"go/token"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tender-barbarian/go-describe/internal/symtab"
)

// maxInputLen bounds every string argument a tool accepts.
const maxInputLen = 1024

// withLengthCheck rejects requests carrying string arguments longer than maxInputLen.
func withLengthCheck(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		for name, v := range req.GetArguments() {
			s, ok := v.(string)
			if ok && len(s) > maxInputLen {
				return nil, fmt.Errorf("argument %q exceeds maximum length of %d bytes", name, maxInputLen)
			}
		}
		return next(ctx, req)
	}
}

// jsonResult serialises v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

// filterFuncs returns funcs, optionally dropping unexported ones.
func filterFuncs(funcs []symtab.FuncInfo, includeUnexported bool) []symtab.FuncInfo {
	if includeUnexported {
		return funcs
	}
	result := make([]symtab.FuncInfo, 0, len(funcs))
	for _, f := range funcs {
		if token.IsExported(f.Name) {
			result = append(result, f)
		}
	}
	return result
}

// filterFields returns fields, optionally dropping unexported ones.
func filterFields(fields []symtab.FieldInfo, includeUnexported bool) []symtab.FieldInfo {
	if includeUnexported {
		return fields
	}
	result := make([]symtab.FieldInfo, 0, len(fields))
	for _, f := range fields {
		if f.Exported {
			result = append(result, f)
		}
	}
	return result
}

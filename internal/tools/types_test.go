package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/go-describe/internal/symtab"
)

func TestFindTypeHandler(t *testing.T) {
	handler := findTypeHandler(newFixtureFinder(t))

	tests := []struct {
		name     string
		args     map[string]any
		expected []string
	}{
		{name: "exact match", args: map[string]any{"name": "User"}, expected: []string{"User"}},
		{name: "prefix match", args: map[string]any{"name": "B", "match": "prefix"}, expected: []string{"Box", "Broken"}},
		{name: "contains match", args: map[string]any{"name": "a", "match": "contains"}, expected: []string{"Plain", "Table"}},
		{name: "described only", args: map[string]any{"name": "l", "match": "contains", "described_only": true}, expected: []string{"Celsius", "Table"}},
		{name: "no match", args: map[string]any{"name": "Nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: tt.args}}
			res, err := handler(context.Background(), req)
			require.NoError(t, err)

			var refs []symtab.TypeRef
			require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &refs))

			var actual []string
			for _, r := range refs {
				assert.Equal(t, fixturePkg, r.Package)
				actual = append(actual, r.Name)
			}
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestGetTypeHandler(t *testing.T) {
	handler := getTypeHandler(newFixtureFinder(t))

	tests := []struct {
		name              string
		typeName          string
		pkg               string
		excludeUnexported bool
		expectedErr       string
		expectedFields    int
		expectedMethods   []string
		expectedProblems  int
	}{
		{name: "package not found", pkg: "no/such/pkg", typeName: "User", expectedErr: "not found"},
		{name: "type not found", pkg: fixturePkg, typeName: "Nope", expectedErr: "not found"},
		{name: "described type", pkg: fixturePkg, typeName: "User", expectedFields: 3, expectedMethods: []string{"FullName", "Initials"}},
		{name: "unexported fields kept by default", pkg: fixturePkg, typeName: "Table", expectedFields: 3, expectedMethods: []string{"Reset"}},
		{name: "unexported fields dropped", pkg: fixturePkg, typeName: "Table", excludeUnexported: true, expectedMethods: []string{"Reset"}},
		{name: "problems are reported", pkg: fixturePkg, typeName: "Broken", expectedFields: 2, expectedProblems: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{"package": tt.pkg, "name": tt.typeName}
			if tt.excludeUnexported {
				args["include_unexported"] = false
			}
			req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
			res, err := handler(context.Background(), req)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)

			var actual symtab.TypeInfo
			require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &actual))
			assert.Equal(t, tt.typeName, actual.Name)
			assert.Len(t, actual.Fields, tt.expectedFields)
			assert.Len(t, actual.Problems, tt.expectedProblems)

			var methods []string
			for _, m := range actual.Methods {
				methods = append(methods, m.Name)
			}
			assert.Equal(t, tt.expectedMethods, methods)
		})
	}
}

func TestGetTypeHandlerLeavesIndexUntouched(t *testing.T) {
	f := newFixtureFinder(t)
	handler := getTypeHandler(f)

	req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]any{
		"package": fixturePkg, "name": "Table", "include_unexported": false,
	}}}
	_, err := handler(context.Background(), req)
	require.NoError(t, err)

	table, err := f.GetType(fixturePkg, "Table")
	require.NoError(t, err)
	assert.Len(t, table.Fields, 3)
}

func TestCheckDescriptionsHandler(t *testing.T) {
	handler := checkDescriptionsHandler(newFixtureFinder(t))

	type typeCheck struct {
		Name     string   `json:"name"`
		Valid    bool     `json:"valid"`
		Problems []string `json:"problems"`
	}
	type report struct {
		Checked int         `json:"checked"`
		Invalid int         `json:"invalid"`
		Types   []typeCheck `json:"types"`
	}

	t.Run("all packages", func(t *testing.T) {
		res, err := handler(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)

		var actual report
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &actual))
		assert.Equal(t, 7, actual.Checked)
		assert.Equal(t, 3, actual.Invalid)

		valid := map[string]bool{}
		for _, tc := range actual.Types {
			valid[tc.Name] = tc.Valid
		}
		assert.Equal(t, map[string]bool{
			"Box":      false,
			"Broken":   false,
			"Celsius":  false,
			"Consents": true,
			"Locked":   true,
			"Table":    true,
			"User":     true,
		}, valid)
	})

	t.Run("prefix with no packages", func(t *testing.T) {
		req := mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: map[string]any{"package": "no/match"}}}
		res, err := handler(context.Background(), req)
		require.NoError(t, err)

		var actual report
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &actual))
		assert.Zero(t, actual.Checked)
		assert.Empty(t, actual.Types)
	})
}

package describe

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegisterMergesSlots(t *testing.T) {
	tests := []struct {
		name    string
		first   Declaration
		second  Declaration
		wantErr error
	}{
		{
			name:   "fields then methods",
			first:  Declaration{FieldNames: []string{"a", "b"}},
			second: Declaration{MethodNames: []string{"Do"}},
		},
		{
			name:   "methods then annotations",
			first:  Declaration{Methods: []any{(*pair).Do}},
			second: Declaration{Annotate: func(any, *Annotator) {}},
		},
		{
			name:    "field list twice",
			first:   Declaration{FieldNames: []string{"a", "b"}},
			second:  Declaration{Fields: flagFields},
			wantErr: ErrAlreadyRegistered,
		},
		{
			name:    "method list twice",
			first:   Declaration{MethodNames: []string{"Do"}},
			second:  Declaration{MethodNames: []string{"Do"}},
			wantErr: ErrAlreadyRegistered,
		},
		{
			name:    "both forms in one declaration",
			first:   Declaration{},
			second:  Declaration{FieldNames: []string{"a"}, Fields: flagFields},
			wantErr: ErrAlreadyRegistered,
		},
		{
			name:    "annotations twice",
			first:   Declaration{Annotate: func(any, *Annotator) {}},
			second:  Declaration{Annotate: func(any, *Annotator) {}},
			wantErr: ErrAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			typ := reflect.TypeFor[pair]()
			require.NoError(t, r.Register(typ, tt.first))

			err := r.Register(typ, tt.second)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegisterFailureKeepsEarlierSlots(t *testing.T) {
	r := NewRegistry()
	typ := reflect.TypeFor[pair]()
	require.NoError(t, r.Register(typ, Declaration{FieldNames: []string{"a", "b"}}))
	require.Error(t, r.Register(typ, Declaration{MethodNames: []string{"Do"}, FieldNames: []string{"a"}}))

	assert.True(t, r.IsDescribed(typ))
	assert.False(t, r.HasMethodList(typ))
	info, err := r.Fields(typ)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, info.Names())
}

func TestRegisterNilType(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil, Declaration{FieldNames: []string{}}))
	assert.False(t, r.IsDescribed(nil))
	assert.False(t, r.HasFieldInfo(nil))
	assert.ErrorIs(t, r.CheckFields(nil).Err, ErrMissingDescription)
	_, err := r.Fields(nil)
	assert.Error(t, err)
}

func TestFrozenAfterDerivation(t *testing.T) {
	r := NewRegistry()
	typ := reflect.TypeFor[pair]()
	require.NoError(t, r.Register(typ, Declaration{FieldNames: []string{"a", "b"}}))

	first := r.CheckFields(typ)
	err := r.Register(typ, Declaration{MethodNames: []string{"Do"}})
	assert.ErrorIs(t, err, ErrFrozen)

	assert.Equal(t, first, r.CheckFields(typ))
	assert.False(t, r.HasMethodList(typ))
	assert.False(t, r.HasMethodInfo(typ))
}

func TestDerivationIsMemoized(t *testing.T) {
	calls := 0
	r := NewRegistry()
	typ := reflect.TypeFor[pair]()
	require.NoError(t, r.Register(typ, Declaration{Fields: func(p any) []any {
		calls++
		v := p.(*pair)
		return []any{&v.a, &v.b}
	}}))

	a, err := r.Fields(typ)
	require.NoError(t, err)
	b, err := r.Fields(typ)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestTypesAndValidateAll(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(reflect.TypeFor[pair](), Declaration{FieldNames: []string{"a", "b"}}))
	require.NoError(t, r.Register(reflect.TypeFor[flags](), Declaration{Fields: flagFields}))
	require.NoError(t, r.Register(reflect.TypeFor[other](), Declaration{MethodNames: []string{}}))

	types := r.Types()
	require.Len(t, types, 3)
	assert.Equal(t, "describe.flags", types[0].String())
	assert.Equal(t, "describe.other", types[1].String())
	assert.Equal(t, "describe.pair", types[2].String())
	assert.NoError(t, r.ValidateAll())

	require.NoError(t, r.Register(reflect.TypeFor[withBlank](), Declaration{FieldNames: []string{"b", "a"}}))
	err := r.ValidateAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "withBlank")
}

func TestRegistryLogsDerivation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry(WithLogger(zap.New(core)))
	typ := reflect.TypeFor[pair]()
	require.NoError(t, r.Register(typ, Declaration{FieldNames: []string{"a", "b"}}))

	r.HasFieldInfo(typ)
	r.HasFieldInfo(typ)

	entries := logs.FilterMessage("derived type metadata").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "pair", fields["type"])
	assert.Equal(t, "registered names", fields["field_source"])
	assert.Equal(t, true, fields["has_field_info"])
	assert.Equal(t, "", fields["method_source"])
	assert.Equal(t, false, fields["has_method_info"])
}

func TestWithNilLogger(t *testing.T) {
	r := NewRegistry(WithLogger(nil))
	assert.NotNil(t, r.logger)
	assert.False(t, r.HasFieldInfo(reflect.TypeFor[plain]()))
}

package describe

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldAccessors(t *testing.T) {
	tests := []struct {
		name      string
		count     func() int
		names     func() []string
		wantNames []string
		wantTypes []reflect.Type
	}{
		{
			name:      "inline description",
			count:     FieldCount[user],
			names:     FieldNames[user],
			wantNames: []string{"firstName", "lastName", "age"},
			wantTypes: []reflect.Type{reflect.TypeFor[string](), reflect.TypeFor[string](), reflect.TypeFor[int]()},
		},
		{
			name:      "registered names",
			count:     FieldCount[outer],
			names:     FieldNames[outer],
			wantNames: []string{"D", "E", "F"},
			wantTypes: []reflect.Type{reflect.TypeFor[float32](), reflect.TypeFor[byte](), reflect.TypeFor[inner]()},
		},
		{
			name:      "nested described types",
			count:     FieldCount[account],
			names:     FieldNames[account],
			wantNames: []string{"Owner", "Consents", "Tags"},
			wantTypes: []reflect.Type{reflect.TypeFor[user](), reflect.TypeFor[consents](), reflect.TypeFor[[]string]()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, len(tt.wantNames), tt.count())
			assert.Equal(t, tt.wantNames, tt.names())
		})
	}

	for i, want := range []reflect.Type{reflect.TypeFor[string](), reflect.TypeFor[string](), reflect.TypeFor[int]()} {
		assert.Equal(t, want, FieldValueType[user](i))
		assert.Equal(t, tests[0].wantNames[i], FieldName[user](i))
	}
	for i, want := range tests[1].wantTypes {
		assert.Equal(t, want, FieldValueType[outer](i))
	}
	for i, want := range tests[2].wantTypes {
		assert.Equal(t, want, FieldValueType[account](i))
	}
}

func TestFieldNamesReturnsCopy(t *testing.T) {
	names := FieldNames[user]()
	names[0] = "changed"
	assert.Equal(t, "firstName", FieldName[user](0))
}

func TestCheckReportsReturnCopies(t *testing.T) {
	fields := CheckFields[user]()
	fields.Names[0] = "changed"
	assert.Equal(t, []string{"firstName", "lastName", "age"}, CheckFields[user]().Names)

	methods := CheckMethods[user]()
	methods.Names[0] = "changed"
	assert.Equal(t, []string{"FullName", "Initials"}, CheckMethods[user]().Names)
}

func TestMethodNames(t *testing.T) {
	assert.Equal(t, []string{"FullName", "Initials"}, MethodNames[user]())
	assert.Equal(t, []string{"Reset"}, MethodNames[outer]())

	info, err := MethodsOf[user]()
	require.NoError(t, err)
	assert.True(t, info.Member(0).PointerReceiver)
	assert.False(t, info.Member(1).PointerReceiver)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name        string
		described   bool
		fieldInfo   bool
		methodInfo  bool
		describedFn func() bool
		fieldFn     func() bool
		methodFn    func() bool
	}{
		{"user", true, true, true, IsDescribed[user], HasFieldInfo[user], HasMethodInfo[user]},
		{"consents", true, true, false, IsDescribed[consents], HasFieldInfo[consents], HasMethodInfo[consents]},
		{"outer", true, true, true, IsDescribed[outer], HasFieldInfo[outer], HasMethodInfo[outer]},
		{"inner", true, true, false, IsDescribed[inner], HasFieldInfo[inner], HasMethodInfo[inner]},
		{"plain", false, false, false, IsDescribed[plain], HasFieldInfo[plain], HasMethodInfo[plain]},
		{"int", false, false, false, IsDescribed[int], HasFieldInfo[int], HasMethodInfo[int]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.described, tt.describedFn())
			assert.Equal(t, tt.fieldInfo, tt.fieldFn())
			assert.Equal(t, tt.methodInfo, tt.methodFn())
		})
	}
}

func TestAccessorsPanicWithoutInfo(t *testing.T) {
	assert.Panics(t, func() { FieldCount[plain]() })
	assert.Panics(t, func() { FieldName[plain](0) })
	assert.Panics(t, func() { FieldValueType[plain](0) })
	assert.Panics(t, func() { MethodNames[inner]() })

	_, err := FieldsOf[plain]()
	assert.ErrorIs(t, err, ErrMissingDescription)
	_, err = MethodsOf[inner]()
	assert.ErrorIs(t, err, ErrMissingDescription)
}

func TestCheckReports(t *testing.T) {
	rep := CheckFields[user]()
	assert.True(t, rep.Collected)
	assert.True(t, rep.Complete)
	assert.True(t, rep.Aggregate)
	assert.NoError(t, rep.Err)
	assert.Equal(t, reflect.TypeFor[user](), rep.Type)

	rep = CheckMethods[outer]()
	assert.True(t, rep.HasMethodInfo())
	assert.Equal(t, MethodList, rep.Kind)
}

func TestRegisterAfterDerivation(t *testing.T) {
	require.True(t, HasFieldInfo[inner]())

	err := RegisterMethodNames[inner]("Anything")
	assert.ErrorIs(t, err, ErrFrozen)
	assert.Panics(t, func() { MustRegisterMethodNames[inner]("Anything") })
}

func TestRegisterNilFunctions(t *testing.T) {
	assert.Error(t, RegisterFields[plain](nil))
	assert.Error(t, RegisterAnnotations[plain](nil))
	assert.False(t, IsDescribed[plain]())
}

func TestVerify(t *testing.T) {
	assert.NoError(t, Verify(
		reflect.TypeFor[user](),
		reflect.TypeFor[consents](),
		reflect.TypeFor[account](),
		reflect.TypeFor[inner](),
		reflect.TypeFor[outer](),
	))

	err := Verify(reflect.TypeFor[user](), reflect.TypeFor[plain](), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDescription)
	assert.Contains(t, err.Error(), "plain: no fields description")
}

func TestConcurrentQueries(t *testing.T) {
	r := NewRegistry()
	typ := reflect.TypeFor[pair]()
	require.NoError(t, r.Register(typ, Declaration{FieldNames: []string{"a", "b"}, MethodNames: []string{"Do"}}))

	const workers = 16
	infos := make([]*Info, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := r.Fields(typ)
			assert.NoError(t, err)
			assert.True(t, r.HasMethodInfo(typ))
			infos[i] = info
		}()
	}
	wg.Wait()

	for _, info := range infos[1:] {
		assert.Same(t, infos[0], info)
	}
}

package describe

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachField(t *testing.T) {
	u := user{firstName: "Gabe", lastName: "Itch", age: 27}

	var got []string
	ForEachField(&u, func(name string, field reflect.Value) {
		got = append(got, fmt.Sprintf("%s=%v", name, field.Interface()))
	})

	assert.Equal(t, []string{"firstName=Gabe", "lastName=Itch", "age=27"}, got)
}

func TestForEachFieldSetsThroughVisitor(t *testing.T) {
	u := user{firstName: "Gabe", lastName: "Itch", age: 27}

	ForEachField(&u, func(name string, field reflect.Value) {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.ToUpper(field.String()))
		case reflect.Int:
			field.SetInt(field.Int() + 1)
		}
	})

	assert.Equal(t, user{firstName: "GABE", lastName: "ITCH", age: 28}, u)
	assert.Equal(t, "GABE ITCH", u.FullName())
}

func TestForEachFieldOutOfBand(t *testing.T) {
	o := outer{D: 1.5, E: 'x', F: inner{A: "a", B: 2, C: 3}}

	var names []string
	ForEachField(&o, func(name string, field reflect.Value) {
		names = append(names, name)
	})
	assert.Equal(t, []string{"D", "E", "F"}, names)
}

func TestForEachFieldPanicsWithoutInfo(t *testing.T) {
	assert.Panics(t, func() {
		ForEachField(&plain{}, func(string, reflect.Value) {})
	})
	assert.Panics(t, func() {
		ForEachFieldDeclaration[plain](func(Field) {})
	})
}

func TestForEachFieldPanicsOnNilPointer(t *testing.T) {
	assert.PanicsWithValue(t, "describe: ForEachField called with a nil *user", func() {
		ForEachField[user](nil, func(string, reflect.Value) {})
	})
}

func TestForEachFieldDeclaration(t *testing.T) {
	var got []string
	ForEachFieldDeclaration[user](func(f Field) {
		got = append(got, fmt.Sprintf("%d:%s:%s", f.Index, f.Name, f.Type))
	})
	assert.Equal(t, []string{"0:firstName:string", "1:lastName:string", "2:age:int"}, got)
}

// flatten renders nested described values as dotted paths.
func flatten(prefix string, v reflect.Value, out map[string]any) error {
	return ForEachFieldValue(v, func(name string, field reflect.Value) {
		path := prefix + name
		if field.Kind() == reflect.Struct && Default.HasFieldInfo(field.Type()) {
			if err := flatten(path+".", field, out); err != nil {
				panic(err)
			}
			return
		}
		out[path] = field.Interface()
	})
}

func TestForEachFieldValueRecursion(t *testing.T) {
	acc := account{
		Owner:    user{firstName: "Gabe", lastName: "Itch", age: 27},
		Consents: consents{emailContact: true},
		Tags:     []string{"vip"},
	}

	out := map[string]any{}
	require.NoError(t, flatten("", reflect.ValueOf(&acc), out))

	assert.Equal(t, map[string]any{
		"Owner.firstName":       "Gabe",
		"Owner.lastName":        "Itch",
		"Owner.age":             27,
		"Consents.emailContact": true,
		"Consents.phoneContact": false,
		"Consents.marketing":    false,
		"Tags":                  []string{"vip"},
	}, out)
}

func TestForEachFieldValue(t *testing.T) {
	t.Run("non-addressable value is copied", func(t *testing.T) {
		u := user{firstName: "Gabe", age: 27}
		err := ForEachFieldValue(reflect.ValueOf(u), func(name string, field reflect.Value) {
			if name == "age" {
				field.SetInt(99)
			}
		})
		require.NoError(t, err)
		assert.Equal(t, 27, u.age)
	})

	t.Run("pointer writes through", func(t *testing.T) {
		u := user{age: 27}
		err := ForEachFieldValue(reflect.ValueOf(&u), func(name string, field reflect.Value) {
			if name == "age" {
				field.SetInt(99)
			}
		})
		require.NoError(t, err)
		assert.Equal(t, 99, u.age)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := ForEachFieldValue(reflect.ValueOf((*user)(nil)), func(string, reflect.Value) {})
		assert.EqualError(t, err, "traversing: nil pointer")
	})

	t.Run("invalid value", func(t *testing.T) {
		err := ForEachFieldValue(reflect.Value{}, func(string, reflect.Value) {})
		assert.Error(t, err)
	})

	t.Run("undescribed type", func(t *testing.T) {
		err := ForEachFieldValue(reflect.ValueOf(plain{}), func(string, reflect.Value) {})
		assert.ErrorIs(t, err, ErrMissingDescription)
	})
}

func TestRegistryForEachFieldDeclaration(t *testing.T) {
	r := NewRegistry()
	typ := reflect.TypeFor[pair]()
	require.NoError(t, r.Register(typ, Declaration{FieldNames: []string{"a", "b"}}))

	var offsets []uintptr
	require.NoError(t, r.ForEachFieldDeclaration(typ, func(f Field) {
		offsets = append(offsets, f.Offset)
		assert.Equal(t, typ, f.Owner)
	}))
	assert.Equal(t, []uintptr{0, reflect.TypeFor[int]().Size()}, offsets)

	assert.Error(t, r.ForEachFieldDeclaration(reflect.TypeFor[plain](), func(Field) {}))
}

func TestInfoEachRejectsWrongValues(t *testing.T) {
	info, err := FieldsOf[user]()
	require.NoError(t, err)

	assert.Error(t, info.Each(reflect.ValueOf(user{}), func(Field, reflect.Value) {}))
	assert.Error(t, info.Each(reflect.ValueOf(&plain{}).Elem(), func(Field, reflect.Value) {}))

	methods, err := MethodsOf[user]()
	require.NoError(t, err)
	assert.Error(t, methods.Each(reflect.ValueOf(&user{}).Elem(), func(Field, reflect.Value) {}))
	assert.Panics(t, func() { methods.Field(0) })
}

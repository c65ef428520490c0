package jsonenc

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tender-barbarian/go-describe/pkg/describe"
)

type inner struct {
	a string
	b int
	c int
}

type outer struct {
	d float32
	e byte
	f inner
}

func init() {
	describe.MustRegisterFieldNames[inner]("a", "b", "c")
	describe.MustRegisterFieldNames[outer]("d", "e", "f")
}

type contact struct {
	Email string
	Phone string
}

func (c *contact) DescribeFields() []any {
	return []any{&c.Email, &c.Phone}
}

func (c *contact) DescribeAnnotations(a *describe.Annotator) {
	a.Set(&c.Email, Name("email_address"))
}

type book struct {
	Title    string
	Authors  []contact
	Pages    int
	Price    float64
	InPrint  bool
	Metadata map[string]string
}

func (b *book) DescribeFields() []any {
	return []any{&b.Title, &b.Authors, &b.Pages, &b.Price, &b.InPrint, &b.Metadata}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "nested out-of-band descriptions",
			v:    outer{d: 5.56, e: 'k', f: inner{a: "This is a test", b: 6, c: 7}},
			want: `{"d":5.56,"e":107,"f":{"a":"This is a test","b":6,"c":7}}`,
		},
		{
			name: "pointer",
			v:    &inner{a: "x"},
			want: `{"a":"x","b":0,"c":0}`,
		},
		{
			name: "renamed key",
			v:    contact{Email: "gabe@example.com", Phone: "555"},
			want: `{"email_address":"gabe@example.com","Phone":"555"}`,
		},
		{
			name: "slice of described values",
			v: book{
				Title:   "Go",
				Authors: []contact{{Email: "a@b.c"}},
				Pages:   300,
				Price:   9.5,
			},
			want: `{"Title":"Go","Authors":[{"email_address":"a@b.c","Phone":""}],"Pages":300,"Price":9.5,"InPrint":false,"Metadata":null}`,
		},
		{
			name: "undescribed value",
			v:    map[string]int{"x": 1},
			want: `{"x":1}`,
		},
		{
			name: "nil",
			v:    nil,
			want: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalIndent(t *testing.T) {
	got, err := MarshalIndent(inner{a: "x", b: 1, c: 2}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"x\",\n  \"b\": 1,\n  \"c\": 2\n}", string(got))
}

func TestMarshalInvalidDescription(t *testing.T) {
	type broken struct{ x, y int }

	r := describe.NewRegistry()
	require.NoError(t, r.Register(reflect.TypeFor[broken](), describe.Declaration{FieldNames: []string{"y", "x"}}))

	// an invalid description is not field info, so the value falls through to encoding/json
	got, err := NewEncoder(r).Marshal(broken{1, 2})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

func TestSchema(t *testing.T) {
	s, err := Schema[book]()
	require.NoError(t, err)

	assert.Equal(t, "book", s.Title)
	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"Title", "Authors", "Pages", "Price", "InPrint", "Metadata"}, s.Required)

	var keys []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, s.Required, keys)

	authors, ok := s.Properties.Get("Authors")
	require.True(t, ok)
	assert.Equal(t, "array", authors.Type)
	require.NotNil(t, authors.Items)
	assert.Equal(t, []string{"email_address", "Phone"}, authors.Items.Required)

	pages, _ := s.Properties.Get("Pages")
	assert.Equal(t, "integer", pages.Type)
	price, _ := s.Properties.Get("Price")
	assert.Equal(t, "number", price.Type)
	inPrint, _ := s.Properties.Get("InPrint")
	assert.Equal(t, "boolean", inPrint.Type)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"$schema"`)
}

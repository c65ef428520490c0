package demo

import (
	"github.com/tender-barbarian/go-describe/internal/ddl"
	"github.com/tender-barbarian/go-describe/internal/jsonenc"
	"github.com/tender-barbarian/go-describe/pkg/describe"
)

// Consents records which channels a user agreed to be contacted on. The
// annotations are the ASCII codes printed next to each flag.
type Consents struct {
	EmailContact bool
	PhoneContact bool
}

func (c *Consents) DescribeFields() []any {
	return []any{&c.EmailContact, &c.PhoneContact}
}

func (c *Consents) DescribeAnnotations(a *describe.Annotator) {
	a.Begin(48)
	a.End(&c.EmailContact)

	a.Begin(56)
	a.End(&c.PhoneContact)
}

// User is described inline, fields and methods.
type User struct {
	FirstName string
	LastName  string
	Age       int
	Consents  Consents
}

func (u *User) DescribeFields() []any {
	return []any{&u.FirstName, &u.LastName, &u.Age, &u.Consents}
}

func (u *User) DescribeMethods() []any {
	return []any{(*User).FullName}
}

// FullName joins the first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Inner and Outer are described out of band.
type Inner struct {
	A string
	B int
	C int
}

type Outer struct {
	D float32
	E byte
	F Inner
}

// Product is stored in SQLite; ID is the primary key and Label is encoded
// as "name" in JSON.
type Product struct {
	ID    int
	Price float32
	Grade byte
	Label string
}

func init() {
	describe.MustRegisterFieldNames[Inner]("A", "B", "C")
	describe.MustRegisterFieldNames[Outer]("D", "E", "F")

	describe.MustRegisterFields(func(p *Product) []any {
		return []any{&p.ID, &p.Price, &p.Grade, &p.Label}
	})
	describe.MustRegisterAnnotations(func(p *Product, a *describe.Annotator) {
		a.Set(&p.ID, ddl.PrimaryKey{})
		a.Set(&p.Label, jsonenc.Name("name"))
	})
}

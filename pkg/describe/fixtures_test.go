package describe

import "strings"

// user is described inline, fields and methods.
type user struct {
	firstName string
	lastName  string
	age       int
}

func (u *user) DescribeFields() []any {
	return []any{&u.firstName, &u.lastName, &u.age}
}

func (u *user) DescribeMethods() []any {
	return []any{(*user).FullName, user.Initials}
}

func (u *user) FullName() string {
	return u.firstName + " " + u.lastName
}

func (u user) Initials() string {
	if u.firstName == "" || u.lastName == "" {
		return ""
	}
	return strings.ToUpper(u.firstName[:1] + u.lastName[:1])
}

// consents carries positional and keyed annotations; marketing has none.
type consents struct {
	emailContact bool
	phoneContact bool
	marketing    bool
}

func (c *consents) DescribeFields() []any {
	return []any{&c.emailContact, &c.phoneContact, &c.marketing}
}

func (c *consents) DescribeAnnotations(a *Annotator) {
	a.Begin(48)
	a.End(&c.emailContact)

	a.Begin(56)
	a.End(&c.phoneContact)
}

// account nests described types.
type account struct {
	Owner    user
	Consents consents
	Tags     []string
}

func (a *account) DescribeFields() []any {
	return []any{&a.Owner, &a.Consents, &a.Tags}
}

// inner and outer are described out of band with literal names.
type inner struct {
	A string
	B int
	C int
}

type outer struct {
	D float32
	E byte
	F inner
}

func (o *outer) Reset() { *o = outer{} }

func init() {
	MustRegisterFieldNames[inner]("A", "B", "C")
	MustRegisterFieldNames[outer]("D", "E", "F")
	MustRegisterMethods[outer]((*outer).Reset)
}

// plain has no description at all.
type plain struct {
	X int
}

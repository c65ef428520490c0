// Package people is a test fixture for the indexer.
package people

import (
	"strings"
	"sync"
)

// User is a person with a name and an age.
//
//describe:fields FirstName LastName Age
//describe:methods FullName
type User struct {
	// FirstName is the given name.
	FirstName string
	LastName  string // family name
	Age       int
}

// FullName joins the first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Initials returns the upper-cased initials.
func (u User) Initials() string {
	if u.FirstName == "" || u.LastName == "" {
		return ""
	}
	return strings.ToUpper(u.FirstName[:1] + u.LastName[:1])
}

// Consents records contact agreements.
//
//describe:fields
type Consents struct {
	EmailContact bool
	PhoneContact bool
	_            struct{}
}

// Table is stored in SQLite.
//
//describe:fields id, a, b
//describe:methods Reset
type Table struct {
	id int
	a  float32
	b  byte
}

// Reset zeroes the row.
func (t *Table) Reset() { *t = Table{} }

// Broken repeats a field, names one that does not exist and lists an
// unknown method.
//
//describe:fields Name Name Missing
//describe:methods Wave
type Broken struct {
	Name  string
	Other int
}

// Box holds one value.
//
//describe:fields Value
type Box[T any] struct {
	Value T
}

// Celsius is a temperature.
//
//describe:fields Value
type Celsius float64

// Locked embeds a mutex.
//
//describe:fields Mutex count
//describe:methods Lock Unlock
type Locked struct {
	sync.Mutex
	count int
}

// Plain has no description.
type Plain struct {
	X int
}

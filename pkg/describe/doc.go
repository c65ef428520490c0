// Package describe derives, validates and exposes field and method metadata
// for plain Go types from member lists their authors declare.
//
// # Declaring members
//
// A type declares its fields inline by implementing FieldLister on its pointer
// type. The method runs against a zero probe and returns pointers to the
// probe's fields; the engine maps each pointer back to the struct field it
// addresses:
//
//	type User struct {
//		FirstName string
//		LastName  string
//		Age       int
//	}
//
//	func (u *User) DescribeFields() []any {
//		return []any{&u.FirstName, &u.LastName, &u.Age}
//	}
//
// Types that cannot carry such a method are described out of band, usually
// from an init function:
//
//	func init() {
//		describe.MustRegisterFieldNames[Inner]("A", "B", "C")
//		describe.MustRegisterMethods[Inner]((*Inner).Reset)
//	}
//
// The describe command generates these registrations from
// //describe:fields and //describe:methods directives.
//
// # Validation
//
// Each list is validated once, on first use, and the result is cached.
// A field list must reference only fields of the type itself, contain only
// fields, name each field once and, unless the type implements Opaque, name
// every field in declaration order. Method lists must reference only methods
// of the type. CheckFields and CheckMethods expose the resulting Report;
// FieldsOf and MethodsOf only return Info for lists that pass.
//
// # Annotations
//
// Annotated types attach one value per field:
//
//	func (c *Consents) DescribeAnnotations(a *describe.Annotator) {
//		a.Begin(48)
//		a.End(&c.EmailContact)
//		a.Set(&c.PhoneContact, 56)
//	}
//
// # Traversal
//
// ForEachField visits the fields of an instance in declaration order and
// ForEachFieldDeclaration visits the field declarations of a type.
//
// List and annotation declarations run while the registry is locked and must
// not query the registry themselves.
package describe

// Package demo walks through the describe API with a few sample types: a
// pretty-printed user, JSON output of out-of-band descriptions and a SQLite
// table generated and filled from a described struct.
package demo

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"reflect"

	"github.com/fatih/color"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/tender-barbarian/go-describe/internal/ddl"
	"github.com/tender-barbarian/go-describe/internal/jsonenc"
	"github.com/tender-barbarian/go-describe/internal/pretty"
	"github.com/tender-barbarian/go-describe/pkg/describe"
)

// Options configures Run.
type Options struct {
	NoColor bool
	Logger  *zap.Logger
}

// Types lists the sample types, for verification at startup.
func Types() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[Consents](),
		reflect.TypeFor[User](),
		reflect.TypeFor[Inner](),
		reflect.TypeFor[Outer](),
		reflect.TypeFor[Product](),
	}
}

// Run writes the walkthrough to w.
func Run(ctx context.Context, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := describe.Verify(Types()...); err != nil {
		return fmt.Errorf("verifying sample types: %w", err)
	}

	heading := color.New(color.Bold, color.FgCyan)
	if opts.NoColor {
		heading.DisableColor()
	}
	section := func(title string) {
		fmt.Fprintln(w)
		heading.Fprintln(w, title)
	}

	user := User{
		FirstName: "Gabe",
		LastName:  "Itch",
		Age:       27,
		Consents:  Consents{EmailContact: true},
	}

	section("User")
	if err := pretty.NewPrinter(w, &pretty.Options{NoColor: opts.NoColor}).Print(&user); err != nil {
		return err
	}
	fmt.Fprintf(w, "methods: %v\n", describe.MethodNames[User]())
	describe.ForEachFieldDeclaration[Consents](func(f describe.Field) {
		if code, ok := f.Annotation(); ok {
			fmt.Fprintf(w, "Consents.%s annotation: %v (%q)\n", f.Name, code, rune(code.(int)))
		}
	})

	section("Outer as JSON")
	out, err := jsonenc.MarshalIndent(Outer{D: 5.56, E: 'k', F: Inner{A: "This is a test", B: 6, C: 7}}, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding Outer: %w", err)
	}
	fmt.Fprintln(w, string(out))

	section("Product table")
	stmt, err := ddl.CreateTable[Product]()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, stmt)

	rows, err := storeProducts(ctx, stmt, []Product{
		{ID: 1, Price: 2.5, Grade: 'A', Label: "widget"},
		{ID: 2, Price: 0.5, Grade: 'B', Label: "gadget"},
	})
	if err != nil {
		return err
	}
	logger.Debug("stored sample products", zap.Int("rows", len(rows)))
	for _, p := range rows {
		b, err := jsonenc.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding product %d: %w", p.ID, err)
		}
		fmt.Fprintln(w, string(b))
	}
	return nil
}

// storeProducts creates the product table in an in-memory database, inserts
// products and reads them back in ID order.
func storeProducts(ctx context.Context, createStmt string, products []Product) ([]Product, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createStmt); err != nil {
		return nil, fmt.Errorf("creating product table: %w", err)
	}
	for _, p := range products {
		query, args, err := ddl.Insert(nil, p)
		if err != nil {
			return nil, err
		}
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("inserting product %d: %w", p.ID, err)
		}
	}

	rows, err := db.QueryContext(ctx, "SELECT ID, Price, Grade, Label FROM Product ORDER BY ID")
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Price, &p.Grade, &p.Label); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

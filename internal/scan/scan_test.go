package scan

import (
	"testing"

	"diagen/internal/ast"
	"diagen/internal/diag"
	"diagen/internal/lexer"
	"diagen/internal/parser"
	"diagen/internal/registry"
	"diagen/internal/source"
)

func parseFile(t *testing.T, input string) *ast.File {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.dg", []byte(input))
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	res := parser.ParseFile(fs, lx, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("fixture does not parse: %+v", bag.Items())
	}
	return res.File
}

func scanSrc(t *testing.T, input string) (int, *diag.Bag) {
	t.Helper()
	file := parseFile(t, input)
	bag := diag.NewBag(64)
	n := Check(file, registry.Default(), diag.BagReporter{Bag: bag})
	return n, bag
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, f := range bag.Items() {
		out = append(out, f.Code)
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, f := range bag.Items() {
		if f.Code == code {
			return true
		}
	}
	return false
}

func TestCheck_CleanSourcePasses(t *testing.T) {
	input := `
use aws

diagram "Shop" [direction: "LR"] {
    api = APIGateway("API")
    fn = Lambda("Handler", timeout: 30)

    cluster "VPC" {
        db = RDS("Postgres")
    }

    api >> fn >> db [label: "writes"]
}
`
	n, bag := scanSrc(t, input)
	if n != 0 {
		t.Fatalf("violations = %d, want 0: %+v", n, bag.Items())
	}
}

func TestCheck_UnknownConstructorPasses(t *testing.T) {
	// Unknown names are the corrector's problem, not a security issue.
	n, bag := scanSrc(t, `diagram "D" { x = Kubernetes("k8s") }`)
	if n != 0 {
		t.Fatalf("violations = %d, want 0: %+v", n, bag.Items())
	}
}

func TestCheck_Violations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{
			"member call",
			`diagram "D" { os.system("rm -rf /") }`,
			diag.SecMemberAccess,
		},
		{
			"forbidden capability by name",
			`diagram "D" { x = exec("whoami") }`,
			diag.SecForbiddenCall,
		},
		{
			"forbidden capability case-insensitive",
			`diagram "D" { x = Eval("code") }`,
			diag.SecForbiddenCall,
		},
		{
			"nested call in argument",
			`diagram "D" { x = Lambda(getenv("HOME")) }`,
			diag.SecNestedCall,
		},
		{
			"identifier argument",
			`diagram "D" { x = Lambda(name) }`,
			diag.SecBadArgument,
		},
		{
			"unknown namespace",
			`use os
diagram "D" { x = Lambda("fn") }`,
			diag.SecUnknownNamespace,
		},
		{
			"binding a bare name",
			`diagram "D" { a = Lambda("fn")
b = a }`,
			diag.SecCallNotAllowed,
		},
		{
			"bare identifier statement",
			`diagram "D" { prod }`,
			diag.SecCallNotAllowed,
		},
		{
			"call in edge endpoint",
			`diagram "D" { a = Lambda("fn")
a >> S3("logs") }`,
			diag.SecCallNotAllowed,
		},
		{
			"member access in attribute value",
			`diagram "D" { a = Lambda("fn")
a >> a [label: env.USER] }`,
			diag.SecMemberAccess,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, bag := scanSrc(t, tt.input)
			if n == 0 {
				t.Fatal("expected violations, got none")
			}
			if !hasCode(bag, tt.code) {
				t.Errorf("want %v among %v", tt.code, codes(bag))
			}
		})
	}
}

func TestCheck_CollectsAllViolations(t *testing.T) {
	input := `
use os

diagram "D" {
    os.system("id")
    x = exec("whoami")
    y = Lambda(getenv("HOME"))
}
`
	n, bag := scanSrc(t, input)
	if n < 4 {
		t.Errorf("violations = %d, want at least 4: %+v", n, bag.Items())
	}
	for _, code := range []diag.Code{
		diag.SecUnknownNamespace, diag.SecMemberAccess,
		diag.SecForbiddenCall, diag.SecNestedCall,
	} {
		if !hasCode(bag, code) {
			t.Errorf("missing %v among %v", code, codes(bag))
		}
	}
}

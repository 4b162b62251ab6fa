package correct

import (
	"strings"
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

func firstBindCallee(t *testing.T, file *ast.File) string {
	t.Helper()
	for _, st := range file.Diagrams[0].Body {
		if st.Kind == ast.StmtBind {
			name, ok := st.Bind.Value.CalleeIdent()
			if !ok {
				t.Fatal("bind value is not an ident call")
			}
			return name
		}
	}
	t.Fatal("no bind statement")
	return ""
}

func TestApply_Substitution(t *testing.T) {
	file := parseFile(t, `diagram "D" { db = DynamoDB("users") }`)
	bag := diag.NewBag(16)

	log := Apply(file, registry.Default(), diag.BagReporter{Bag: bag})

	if got := firstBindCallee(t, file); got != "Dynamodb" {
		t.Errorf("callee = %q, want Dynamodb", got)
	}
	if len(log) != 1 {
		t.Fatalf("log = %+v, want one entry", log)
	}
	if log[0].Kind != Substituted || log[0].Original != "DynamoDB" || log[0].Replacement != "Dynamodb" {
		t.Errorf("log[0] = %+v", log[0])
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SymSubstituted {
		t.Errorf("findings = %+v", bag.Items())
	}
	if bag.HasWarnings() {
		t.Error("corrections must be informational")
	}
}

func TestApply_WrapUnknown(t *testing.T) {
	file := parseFile(t, `diagram "D" { x = Kubernetes("k8s cluster") }`)
	log := Apply(file, registry.Default(), diag.NopReporter{})

	if got := firstBindCallee(t, file); got != registry.Placeholder {
		t.Errorf("callee = %q, want %q", got, registry.Placeholder)
	}
	if len(log) != 1 || log[0].Kind != Wrapped || log[0].Original != "Kubernetes" {
		t.Fatalf("log = %+v", log)
	}

	// The existing label survives; the original name is not prepended.
	var bind *ast.Stmt
	for i := range file.Diagrams[0].Body {
		if file.Diagrams[0].Body[i].Kind == ast.StmtBind {
			bind = &file.Diagrams[0].Body[i]
		}
	}
	if label, ok := bind.Bind.Value.FirstStringArg(); !ok || label != "k8s cluster" {
		t.Errorf("label = %q, %v", label, ok)
	}
}

func TestApply_WrapAuditTrail(t *testing.T) {
	file := parseFile(t, `diagram "D" { x = QuantumWidget("My Widget") }`)
	bag := diag.NewBag(16)

	log := Apply(file, registry.Default(), diag.BagReporter{Bag: bag})

	// The wrapped call keeps its label and a single positional argument;
	// the original name moves to the log and finding, not the text.
	printed := string(Print(file))
	if !strings.Contains(printed, `Generic("My Widget")`) {
		t.Errorf("printed = %q, want Generic keeping the label", printed)
	}
	if strings.Contains(printed, "QuantumWidget") {
		t.Errorf("printed = %q, original name must not survive in source", printed)
	}
	if len(log) != 1 || log[0].Original != "QuantumWidget" || log[0].Replacement != registry.Placeholder {
		t.Fatalf("log = %+v", log)
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SymWrapped {
		t.Fatalf("findings = %+v", items)
	}
	if !strings.Contains(items[0].Message, "QuantumWidget") {
		t.Errorf("finding message %q must name the original", items[0].Message)
	}
}

func TestApply_WrapInsertsNameAsLabel(t *testing.T) {
	file := parseFile(t, `diagram "D" { x = Mainframe() }`)
	Apply(file, registry.Default(), diag.NopReporter{})

	bind := &file.Diagrams[0].Body[0]
	if label, ok := bind.Bind.Value.FirstStringArg(); !ok || label != "Mainframe" {
		t.Errorf("label = %q, %v; want original name", label, ok)
	}
}

func TestApply_KnownNamesUntouched(t *testing.T) {
	file := parseFile(t, `diagram "D" { a = Lambda("fn")
g = Generic("thing") }`)
	log := Apply(file, registry.Default(), diag.NopReporter{})
	if len(log) != 0 {
		t.Errorf("log = %+v, want empty", log)
	}
}

func TestApply_Idempotent(t *testing.T) {
	file := parseFile(t, `diagram "D" { x = Warehouse("wh")
y = Postgres("db") }`)
	first := Apply(file, registry.Default(), diag.NopReporter{})
	if len(first) != 2 {
		t.Fatalf("first pass log = %+v", first)
	}
	second := Apply(file, registry.Default(), diag.NopReporter{})
	if len(second) != 0 {
		t.Errorf("second pass must be a no-op, got %+v", second)
	}
}

func TestPrint_RoundTrip(t *testing.T) {
	input := `use aws

diagram "Shop" [direction: "LR"] {
    api = APIGateway("API")
    fn = Lambda("Handler", timeout: 30)
    cluster "VPC" {
        db = RDS("Postgres")
    }
    api >> fn >> db [label: "writes"]
    db << fn
}
`
	file := parseFile(t, input)
	printed := Print(file)

	again := parseFile(t, string(printed))
	if len(again.Uses) != 1 || again.Uses[0].Module != "aws" {
		t.Errorf("uses lost in round trip: %+v", again.Uses)
	}
	if len(again.Diagrams) != 1 {
		t.Fatalf("diagrams = %d", len(again.Diagrams))
	}
	if again.Diagrams[0].Name != "Shop" {
		t.Errorf("name = %q", again.Diagrams[0].Name)
	}
	if len(again.Diagrams[0].Body) != len(file.Diagrams[0].Body) {
		t.Errorf("body length %d != %d", len(again.Diagrams[0].Body), len(file.Diagrams[0].Body))
	}
	// Printing the re-parsed tree reproduces the text exactly.
	if got := string(Print(again)); got != string(printed) {
		t.Errorf("print not stable:\n%s\nvs\n%s", got, printed)
	}
}

func TestPrint_QuotesEscapes(t *testing.T) {
	file := parseFile(t, `diagram "D" { a = Lambda("line\nbreak \"q\"") }`)
	printed := string(Print(file))
	if !strings.Contains(printed, `"line\nbreak \"q\""`) {
		t.Errorf("escapes not preserved:\n%s", printed)
	}
}

func TestPrint_CorrectedSourceReparses(t *testing.T) {
	file := parseFile(t, `diagram "D" { x = DynamoDB("users")
y = Spaceship("x") }`)
	Apply(file, registry.Default(), diag.NopReporter{})

	printed := string(Print(file))
	if !strings.Contains(printed, "Dynamodb(") || !strings.Contains(printed, registry.Placeholder+"(") {
		t.Fatalf("corrections missing from printed source:\n%s", printed)
	}
	again := parseFile(t, printed)
	log := Apply(again, registry.Default(), diag.NopReporter{})
	if len(log) != 0 {
		t.Errorf("re-parsed corrected source needed corrections: %+v", log)
	}
}

package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	r := Default()

	for _, name := range []string{"APIGateway", "Lambda", "Dynamodb", "S3", "KMS", Placeholder} {
		if !r.HasComponent(name) {
			t.Errorf("HasComponent(%q) = false, want true", name)
		}
	}
	if r.HasComponent("dynamodb") {
		t.Error("component lookup should be case-sensitive")
	}
	if r.HasComponent("Kubernetes") {
		t.Error("HasComponent(Kubernetes) = true, want false")
	}
}

func TestSubstitute(t *testing.T) {
	r := Default()

	tests := []struct {
		in    string
		canon string
		ok    bool
	}{
		{"DynamoDB", "Dynamodb", true},
		{"LambdaFunction", "Lambda", true},
		{"Bucket", "S3", true},
		{"Postgres", "RDS", true},
		{"Lambda", "", false},
		{"Mainframe", "", false},
	}
	for _, tt := range tests {
		canon, ok := r.Substitute(tt.in)
		if canon != tt.canon || ok != tt.ok {
			t.Errorf("Substitute(%q) = %q, %v; want %q, %v", tt.in, canon, ok, tt.canon, tt.ok)
		}
	}
}

func TestForbiddenCapability(t *testing.T) {
	r := Default()

	tests := []struct {
		name string
		cap  Capability
		ok   bool
	}{
		{"exec", CapProcess, true},
		{"Exec", CapProcess, true},
		{"EVAL", CapEval, true},
		{"open", CapFilesystem, true},
		{"socket", CapNetwork, true},
		{"getattr", CapReflection, true},
		{"Lambda", "", false},
	}
	for _, tt := range tests {
		cap, ok := r.ForbiddenCapability(tt.name)
		if cap != tt.cap || ok != tt.ok {
			t.Errorf("ForbiddenCapability(%q) = %q, %v; want %q, %v", tt.name, cap, ok, tt.cap, tt.ok)
		}
	}
}

func TestAllowedNamespace(t *testing.T) {
	r := Default()
	if !r.AllowedNamespace("aws") || !r.AllowedNamespace("AWS") {
		t.Error("aws namespace should be allowed, case-insensitively")
	}
	if r.AllowedNamespace("os") {
		t.Error("os namespace should not be allowed")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	overlay := `
components:
  - Kafka
substitutions:
  MessageBus: Kafka
  Queue: Kafka
namespaces:
  - onprem
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !r.HasComponent("Kafka") {
		t.Error("overlay component Kafka missing")
	}
	if !r.HasComponent("Lambda") || !r.HasComponent(Placeholder) {
		t.Error("overlay must keep embedded defaults")
	}
	if canon, _ := r.Substitute("Queue"); canon != "Kafka" {
		t.Errorf("overlay should override substitution, got %q", canon)
	}
	if canon, _ := r.Substitute("DynamoDB"); canon != "Dynamodb" {
		t.Errorf("default substitutions must survive overlay, got %q", canon)
	}
	if !r.AllowedNamespace("onprem") || !r.AllowedNamespace("aws") {
		t.Error("namespaces should be unioned")
	}
	if _, ok := r.ForbiddenCapability("exec"); !ok {
		t.Error("deny table must survive overlay")
	}
}

func TestSubstituteDropsUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	overlay := "substitutions:\n  Thing: NoSuchComponent\n"
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := r.Substitute("Thing"); ok {
		t.Error("substitution onto an unknown component must be dropped")
	}
}

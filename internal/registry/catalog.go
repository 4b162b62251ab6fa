package registry

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// catalog is the on-disk shape of a symbol catalog.
type catalog struct {
	Components    []string          `yaml:"components"`
	Substitutions map[string]string `yaml:"substitutions"`
	Namespaces    []string          `yaml:"namespaces"`
	Forbidden     map[string]string `yaml:"forbidden"`
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry built from the embedded catalog. The
// result is shared; callers must not assume exclusive ownership.
func Default() *Registry {
	defaultOnce.Do(func() {
		var c catalog
		if err := yaml.Unmarshal(defaultCatalog, &c); err != nil {
			panic(fmt.Sprintf("registry: embedded catalog is invalid: %v", err))
		}
		defaultReg = freeze(&c)
	})
	return defaultReg
}

// Load reads a user catalog from path and overlays it on the embedded
// defaults. Components and namespaces are unioned; substitution and
// forbidden entries override defaults key by key. An overlay can extend
// the catalog but never remove the placeholder or the deny table.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read catalog: %w", err)
	}
	var base catalog
	if err := yaml.Unmarshal(defaultCatalog, &base); err != nil {
		panic(fmt.Sprintf("registry: embedded catalog is invalid: %v", err))
	}
	var overlay catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("registry: parse catalog %s: %w", path, err)
	}
	base.Components = append(base.Components, overlay.Components...)
	base.Namespaces = append(base.Namespaces, overlay.Namespaces...)
	for from, to := range overlay.Substitutions {
		base.Substitutions[from] = to
	}
	for name, cap := range overlay.Forbidden {
		base.Forbidden[name] = cap
	}
	return freeze(&base), nil
}

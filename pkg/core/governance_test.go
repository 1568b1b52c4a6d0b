//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/bookcatalog"

// layerRules lists, per package prefix, the module packages it may import.
// Packages not listed may import anything in the module.
var layerRules = map[string][]string{
	"pkg/core":        {},
	"internal/config": {},
	"internal/state":  {"pkg/core"},
	"internal/codec":  {"pkg/core"},
	"internal/tui":    {"pkg/core"},
	"internal/cli/output": {
		"pkg/core",
	},
	"internal/cli/config": {
		"internal/config", "internal/state",
	},
}

// =============================================================================
// LAYERING TEST - Lower layers must not reach up into the CLI
// =============================================================================

// TestGovernance_Layering verifies every package imports only the module
// packages its layer allows.
func TestGovernance_Layering(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	base := modulePath + "/"
	for _, p := range pkgs {
		rel := strings.TrimPrefix(p.PkgPath, base)
		allowed, ruled := layerRules[rel]
		if !ruled {
			continue
		}

		allowedSet := make(map[string]bool, len(allowed))
		for _, a := range allowed {
			allowedSet[a] = true
		}
		for imp := range p.Imports {
			if !strings.HasPrefix(imp, base) {
				continue
			}
			dep := strings.TrimPrefix(imp, base)
			if !allowedSet[dep] {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.\n"+
					"   Allowed module imports: %v", rel, dep, allowed)
			}
		}
	}
}

// =============================================================================
// CONTRACT TEST - The SQLite store satisfies core.BookStore
// =============================================================================

// TestGovernance_StoreImplementsBookStore verifies that *state.SQLiteStore
// implements the persistence contract declared in pkg/core.
func TestGovernance_StoreImplementsBookStore(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes | packages.NeedDeps | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/core", modulePath+"/internal/state")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	var contract *types.Interface
	var store types.Type
	for _, p := range pkgs {
		switch p.PkgPath {
		case modulePath + "/pkg/core":
			obj := p.Types.Scope().Lookup("BookStore")
			if obj == nil {
				t.Fatal("core.BookStore not found")
			}
			contract = obj.Type().Underlying().(*types.Interface)
		case modulePath + "/internal/state":
			obj := p.Types.Scope().Lookup("SQLiteStore")
			if obj == nil {
				t.Fatal("state.SQLiteStore not found")
			}
			store = types.NewPointer(obj.Type())
		}
	}
	if contract == nil || store == nil {
		t.Fatal("Could not load both packages")
	}

	if !types.Implements(store, contract) {
		missing, _ := types.MissingMethod(store, contract, true)
		t.Errorf("CONTRACT VIOLATION: *state.SQLiteStore does not implement core.BookStore (missing %s)", missing.Name())
	}
}

package tools

import (
	"context"
	"testing"
)

func noopHandler(_ context.Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	desc := Descriptor{Name: "echo", Description: "Echo back the input message"}
	if err := r.Register(desc, noopHandler); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	h, err := r.Handler("echo")
	if err != nil {
		t.Fatalf("Handler lookup failed: %v", err)
	}
	if h == nil {
		t.Fatal("expected non-nil handler")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 tool, got %d", r.Len())
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	r := NewRegistry()

	desc := Descriptor{Name: "echo"}
	if err := r.Register(desc, noopHandler); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	err := r.Register(desc, noopHandler)
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if CategoryOf(err) != CategoryDuplicateTool {
		t.Errorf("expected duplicate_tool category, got %s", CategoryOf(err))
	}

	if r.Len() != 1 {
		t.Errorf("failed registration must not change the registry, got %d tools", r.Len())
	}
}

func TestRegistryRejectsEmptyNameAndNilHandler(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Descriptor{}, noopHandler); err == nil {
		t.Error("expected empty name to fail")
	}
	if err := r.Register(Descriptor{Name: "x"}, nil); err == nil {
		t.Error("expected nil handler to fail")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d tools", r.Len())
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Handler("missing")
	if err == nil {
		t.Fatal("expected lookup of missing tool to fail")
	}
	if CategoryOf(err) != CategoryUnknownTool {
		t.Errorf("expected unknown_tool category, got %s", CategoryOf(err))
	}
}

func TestRegistryListPreservesOrder(t *testing.T) {
	r := NewRegistry()

	names := []string{"charlie", "alpha", "bravo"}
	for _, name := range names {
		if err := r.Register(Descriptor{Name: name}, noopHandler); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}

	list := r.List()
	if len(list) != len(names) {
		t.Fatalf("expected %d tools, got %d", len(names), len(list))
	}
	for i, name := range names {
		if list[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, list[i].Name)
		}
	}
}

func TestRegistryListReturnsCopy(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{Name: "echo"}, noopHandler); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	list := r.List()
	list[0].Name = "mutated"

	if r.List()[0].Name != "echo" {
		t.Error("mutating the returned slice must not affect the registry")
	}
}

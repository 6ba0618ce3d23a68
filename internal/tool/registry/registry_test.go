// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"product-advisor/internal/tool"
)

type stubTool struct {
	name string
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }
func (s *stubTool) Schema() tool.Schema { return tool.Schema{Type: "object"} }
func (s *stubTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	return tool.ToolResult{Content: "{}"}, nil
}

func TestRegistry_RegisterRejectsUnknownName(t *testing.T) {
	r := New("search", "compare")
	if err := r.Register(&stubTool{name: "search"}); err != nil {
		t.Fatalf("Register search: %v", err)
	}
	if err := r.Register(&stubTool{name: "delete_everything"}); err == nil {
		t.Fatal("expected error for name outside allowed set")
	}
}

func TestRegistry_ResolveUnknownName(t *testing.T) {
	r := New("search")
	r.Register(&stubTool{name: "search"})
	if _, err := r.Resolve("review"); err == nil {
		t.Fatal("expected error for unknown name")
	}
	got, err := r.Resolve("search")
	if err != nil || got == nil {
		t.Fatalf("Resolve search: %v", err)
	}
}

func TestRegistry_ListSortedByName(t *testing.T) {
	r := New("search", "compare", "review")
	r.Register(&stubTool{name: "review"})
	r.Register(&stubTool{name: "search"})
	r.Register(&stubTool{name: "compare"})

	list := r.List()
	got := make([]string, len(list))
	for i, tl := range list {
		got[i] = tl.Name()
	}
	want := []string{"compare", "review", "search"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("list: got %v, want %v", got, want)
	}
}

func TestRegistry_SchemasForLLM(t *testing.T) {
	r := New("search", "compare")
	r.Register(&stubTool{name: "search"})
	r.Register(&stubTool{name: "compare"})

	body, err := r.SchemasForLLM()
	if err != nil {
		t.Fatalf("SchemasForLLM: %v", err)
	}
	var schemas []ToolSchemaForLLM
	if err := json.Unmarshal(body, &schemas); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(schemas) != 2 || schemas[0].Name != "compare" || schemas[1].Name != "search" {
		t.Errorf("schemas: %+v", schemas)
	}
	if schemas[0].Parameters.Type != "object" {
		t.Errorf("parameters: %+v", schemas[0].Parameters)
	}
}

func TestRegistry_ValidateRequiresFullBinding(t *testing.T) {
	r := New("search", "compare")
	r.Register(&stubTool{name: "search"})
	if err := r.Validate(); err == nil {
		t.Fatal("expected error: compare unbound")
	}
	r.Register(&stubTool{name: "compare"})
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

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

package session

import (
	"context"
	"reflect"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	s := New("sid1")
	if s == nil || s.ID != "sid1" {
		t.Errorf("New: %+v", s)
	}
	s2 := New("")
	if s2.ID == "" {
		t.Error("empty id should generate id")
	}
}

func TestSession_AddTurn_History(t *testing.T) {
	s := New("s1")
	s.AddTurn(&Turn{UserMessage: "xin chào", Response: "chào bạn", Intent: "greeting"})
	s.AddTurn(&Turn{UserMessage: "tìm laptop", Response: "đây là kết quả", Intent: "search"})

	msgs := s.History(3)
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "xin chào" {
		t.Errorf("first message: %+v", msgs[0])
	}
	if msgs[3].Role != "assistant" || msgs[3].Content != "đây là kết quả" {
		t.Errorf("last message: %+v", msgs[3])
	}
}

func TestSession_HistoryWindow(t *testing.T) {
	s := New("s1")
	for i := 0; i < 8; i++ {
		s.AddTurn(&Turn{UserMessage: "u", Response: "a", Intent: "direct"})
	}
	if got := len(s.History(3)); got != 6 {
		t.Errorf("window 3: expected 6 messages, got %d", got)
	}
	// 保留上限 5 轮
	if got := len(s.History(100)); got != 10 {
		t.Errorf("window above cap: expected 10 messages, got %d", got)
	}
}

func TestSnapshot_SearchEntities(t *testing.T) {
	s := New("s1")
	s.AddTurn(&Turn{
		UserMessage: "tìm laptop dell",
		Intent:      "search",
		ToolOutputs: map[string]string{
			"search": `{"products":[{"name":"Dell XPS 13"},{"name":"Dell Inspiron 15"},{"name":"Dell Vostro"},{"name":"Dell G15"}]}`,
		},
		Response: "ok",
	})
	snap := s.CopySnapshot()
	want := []string{"Dell XPS 13", "Dell Inspiron 15", "Dell Vostro"}
	if !reflect.DeepEqual(snap.Entities, want) {
		t.Errorf("entities: got %v, want %v", snap.Entities, want)
	}
	if snap.LastIntent != "search" {
		t.Errorf("last intent: got %q", snap.LastIntent)
	}
}

func TestSnapshot_DuplicateNamesKeptOnce(t *testing.T) {
	s := New("s1")
	s.AddTurn(&Turn{
		Intent: "search",
		ToolOutputs: map[string]string{
			"search": `{"products":[{"name":"Dell XPS 13"},{"name":"Dell XPS 13"},{"name":"Dell Inspiron 15"},{"name":"Dell XPS 13"},{"name":"Dell Vostro"}]}`,
		},
	})
	snap := s.CopySnapshot()
	want := []string{"Dell XPS 13", "Dell Inspiron 15", "Dell Vostro"}
	if !reflect.DeepEqual(snap.Entities, want) {
		t.Errorf("entities should hold distinct names, got %v", snap.Entities)
	}
}

func TestSnapshot_RecommendNestedProductName(t *testing.T) {
	s := New("s1")
	s.AddTurn(&Turn{
		UserMessage: "gợi ý laptop",
		Intent:      "recommend",
		ToolOutputs: map[string]string{
			"recommend": `{"recommendations":[{"product":{"name":"MacBook Air M2"}},{"name":"Asus Zenbook"}]}`,
		},
		Response: "ok",
	})
	snap := s.CopySnapshot()
	want := []string{"MacBook Air M2", "Asus Zenbook"}
	if !reflect.DeepEqual(snap.Entities, want) {
		t.Errorf("entities: got %v, want %v", snap.Entities, want)
	}
}

func TestSnapshot_ReplacedNotMerged(t *testing.T) {
	s := New("s1")
	s.AddTurn(&Turn{
		Intent: "search",
		ToolOutputs: map[string]string{
			"search": `{"products":[{"name":"Dell XPS 13"}]}`,
		},
	})
	s.AddTurn(&Turn{
		Intent: "search",
		ToolOutputs: map[string]string{
			"search": `{"products":[{"name":"iPhone 15 Pro"}]}`,
		},
	})
	snap := s.CopySnapshot()
	if !reflect.DeepEqual(snap.Entities, []string{"iPhone 15 Pro"}) {
		t.Errorf("entities should be replaced, got %v", snap.Entities)
	}
}

func TestSnapshot_TurnWithoutToolsClearsEntities(t *testing.T) {
	s := New("s1")
	s.AddTurn(&Turn{
		Intent: "search",
		ToolOutputs: map[string]string{
			"search": `{"products":[{"name":"Dell XPS 13"}]}`,
		},
	})
	s.AddTurn(&Turn{Intent: "direct", Response: "tư vấn chung"})
	snap := s.CopySnapshot()
	if len(snap.Entities) != 0 {
		t.Errorf("entities should be empty after toolless turn, got %v", snap.Entities)
	}
	if snap.LastIntent != "direct" {
		t.Errorf("last intent: got %q", snap.LastIntent)
	}
}

func TestManager_GetOrCreate_UnknownIDHasEmptySnapshot(t *testing.T) {
	m := NewManager(NewMemoryStore())
	s, err := m.GetOrCreate(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	snap := s.CopySnapshot()
	if len(snap.Entities) != 0 || snap.LastIntent != "" {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestStore_DeleteOnlyOneSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store)

	s1, _ := m.GetOrCreate(ctx, "s1")
	s2, _ := m.GetOrCreate(ctx, "s2")

	if err := m.Delete(ctx, s1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := store.Get(ctx, s1.ID)
	if err != nil || got != nil {
		t.Errorf("s1 should be gone: %v %v", got, err)
	}
	got, err = store.Get(ctx, s2.ID)
	if err != nil || got == nil {
		t.Errorf("s2 should survive: %v %v", got, err)
	}
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store)
	m.GetOrCreate(ctx, "s1")
	m.GetOrCreate(ctx, "s2")

	if err := m.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	for _, id := range []string{"s1", "s2"} {
		got, _ := store.Get(ctx, id)
		if got != nil {
			t.Errorf("session %s should be gone", id)
		}
	}
}

func TestSession_TurnSerialization(t *testing.T) {
	s := New("s1")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.BeginTurn()
			defer s.EndTurn()
			s.AddTurn(&Turn{UserMessage: "u", Response: "a", Intent: "direct"})
		}()
	}
	wg.Wait()
	if got := len(s.CopyTurns()); got != 20 {
		t.Errorf("expected 20 turns, got %d", got)
	}
}

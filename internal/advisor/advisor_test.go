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

package advisor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"product-advisor/internal/advisor/session"
	"product-advisor/internal/catalog"
	"product-advisor/internal/model/llm"
	"product-advisor/internal/tool"
	"product-advisor/internal/tool/registry"
	"product-advisor/pkg/log"
)

// recordingTool 记录每次调用输入的测试工具
type recordingTool struct {
	name   string
	output string
	err    error
	inputs []map[string]any
}

func (r *recordingTool) Name() string        { return r.name }
func (r *recordingTool) Description() string { return "test tool" }
func (r *recordingTool) Schema() tool.Schema { return tool.Schema{Type: "object"} }
func (r *recordingTool) Execute(ctx context.Context, input map[string]any) (tool.ToolResult, error) {
	r.inputs = append(r.inputs, input)
	if r.err != nil {
		return tool.ToolResult{Err: r.err.Error()}, r.err
	}
	return tool.ToolResult{Content: r.output}, nil
}

type testHarness struct {
	advisor *Advisor
	tools   map[string]*recordingTool
}

func newHarness(t *testing.T, client llm.Client) *testHarness {
	t.Helper()

	tools := map[string]*recordingTool{
		"search":    {name: "search", output: `{"products":[{"name":"Dell XPS 13"},{"name":"Dell Inspiron 15"}]}`},
		"compare":   {name: "compare", output: `{"products":[{"name":"Dell XPS 13"},{"name":"Dell Inspiron 15"}]}`},
		"recommend": {name: "recommend", output: `{"recommendations":[{"product":{"name":"MacBook Air M2"}}]}`},
		"review":    {name: "review", output: `{"product":{"name":"Dell XPS 13"},"reviews":[]}`},
	}

	reg := registry.New(ToolIntents...)
	for _, rt := range tools {
		if err := reg.Register(rt); err != nil {
			t.Fatalf("register %s: %v", rt.name, err)
		}
	}

	logger, _ := log.NewLogger(nil)
	adv, err := New(client, reg, session.NewManager(session.NewMemoryStore()), logger, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testHarness{advisor: adv, tools: tools}
}

// ruleOnlyLLM 分类/提取走规则层，生成返回固定回复
func ruleOnlyLLM(reply string) *stubLLM {
	return &stubLLM{
		generate: func(string) (string, error) { return "", errors.New("llm down") },
		chat:     func([]llm.Message) (string, error) { return reply, nil },
	}
}

func TestProcess_EmptyMessage(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	_, err := h.advisor.Process(context.Background(), "", "   ")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestProcess_GreetingNeverDispatchesTools(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	res, err := h.advisor.Process(context.Background(), "", "Xin chào shop")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Intent != "greeting" || !res.Success {
		t.Errorf("result: %+v", res)
	}
	if res.Response != greetingReply {
		t.Errorf("response: got %q", res.Response)
	}
	if !reflect.DeepEqual(res.ToolsUsed, []string{"handle_greeting"}) {
		t.Errorf("tools used: got %v, want greeting marker only", res.ToolsUsed)
	}
	for name, rt := range h.tools {
		if len(rt.inputs) != 0 {
			t.Errorf("tool %s was invoked", name)
		}
	}
}

func TestProcess_SearchTurn(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("Đây là các lựa chọn phù hợp"))
	res, err := h.advisor.Process(context.Background(), "s1", "Tìm laptop Dell dưới 25 triệu")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Intent != "search" || !res.Success {
		t.Fatalf("result: %+v", res)
	}
	if !reflect.DeepEqual(res.ToolsUsed, []string{"search"}) {
		t.Errorf("tools used: %v", res.ToolsUsed)
	}
	if res.Response != "Đây là các lựa chọn phù hợp" {
		t.Errorf("response: %q", res.Response)
	}

	input := h.tools["search"].inputs[0]
	if input["category"] != "laptop" || input["brand"] != "dell" {
		t.Errorf("input: %+v", input)
	}
	if input["price_max"] != float64(25_000_000) {
		t.Errorf("price_max: %v", input["price_max"])
	}
	if len(res.Steps) == 0 {
		t.Error("expected reasoning steps")
	}
}

func TestProcess_ContextCompareShortCircuit(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	ctx := context.Background()

	if _, err := h.advisor.Process(ctx, "s1", "Tìm laptop Dell dưới 25 triệu"); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	res, err := h.advisor.Process(ctx, "s1", "so sánh 2 cái đó")
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if res.Intent != "compare" {
		t.Fatalf("intent: %q", res.Intent)
	}

	input := h.tools["compare"].inputs[0]
	names, _ := input["product_names"].([]string)
	want := []string{"Dell XPS 13", "Dell Inspiron 15"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("product_names: got %v, want %v (order must match previous turn)", names, want)
	}
}

func TestProcess_ContextReviewUsesFirstEntity(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	ctx := context.Background()

	h.advisor.Process(ctx, "s1", "Tìm laptop Dell dưới 25 triệu")
	res, err := h.advisor.Process(ctx, "s1", "đánh giá sản phẩm đó đi")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Intent != "review" {
		t.Fatalf("intent: %q", res.Intent)
	}
	input := h.tools["review"].inputs[0]
	if input["product_name"] != "Dell XPS 13" {
		t.Errorf("product_name: %v", input["product_name"])
	}
}

func TestProcess_BareReviewPhraseUsesRememberedProduct(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	ctx := context.Background()

	h.advisor.Process(ctx, "s1", "Tìm laptop Dell dưới 25 triệu")
	res, err := h.advisor.Process(ctx, "s1", "đánh giá thì sao?")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Intent != "review" || !res.Success {
		t.Fatalf("result: %+v", res)
	}
	input := h.tools["review"].inputs[0]
	if input["product_name"] != "Dell XPS 13" {
		t.Errorf("product_name: %v", input["product_name"])
	}
}

func TestProcess_IndexNotReady(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	h.tools["search"].err = fmt.Errorf("search tool: %w", catalog.ErrIndexNotReady)

	res, err := h.advisor.Process(context.Background(), "s1", "Tìm laptop Dell")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Success {
		t.Error("expected success=false")
	}
	if res.Response != setupRequiredReply {
		t.Errorf("response: %q", res.Response)
	}
}

func TestProcess_EntityNotFound(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	h.tools["review"].err = fmt.Errorf("review tool: %w: %q", tool.ErrNotFound, "máy lạ")

	res, err := h.advisor.Process(context.Background(), "s1", "đánh giá máy lạ")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Success {
		t.Error("expected success=false")
	}
	if res.Response == apologyReply || res.Response == "" {
		t.Errorf("expected specific not-found reply, got %q", res.Response)
	}
}

func TestProcess_GenerationFailure(t *testing.T) {
	client := &stubLLM{
		generate: func(string) (string, error) { return "", errors.New("llm down") },
		chat:     func([]llm.Message) (string, error) { return "", errors.New("llm down") },
	}
	h := newHarness(t, client)

	res, err := h.advisor.Process(context.Background(), "s1", "Tìm laptop Dell")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Success {
		t.Error("expected success=false")
	}
	if res.Response != apologyReply {
		t.Errorf("response: %q", res.Response)
	}
}

func TestProcess_HistoryAndClear(t *testing.T) {
	h := newHarness(t, ruleOnlyLLM("ok"))
	ctx := context.Background()

	res, _ := h.advisor.Process(ctx, "", "Xin chào")
	sid := res.SessionID
	h.advisor.Process(ctx, sid, "Tìm laptop Dell")

	turns, err := h.advisor.History(ctx, sid)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}

	if err := h.advisor.ClearSession(ctx, sid); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	turns, _ = h.advisor.History(ctx, sid)
	if turns != nil {
		t.Errorf("expected no history after clear, got %d turns", len(turns))
	}
}

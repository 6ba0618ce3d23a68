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

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"

	"product-advisor/internal/advisor"
	"product-advisor/internal/advisor/session"
	"product-advisor/internal/catalog"
	"product-advisor/internal/model/llm"
	"product-advisor/internal/tool/builtin"
	"product-advisor/internal/tool/registry"
	"product-advisor/pkg/log"
)

// fixedLLM 分类/提取失败（走规则层），生成返回固定回复
type fixedLLM struct {
	reply string
}

func (f *fixedLLM) Generate(prompt string, options llm.GenerateOptions) (string, error) {
	return "", errors.New("unavailable")
}

func (f *fixedLLM) GenerateWithContext(ctx context.Context, prompt string, options llm.GenerateOptions) (string, error) {
	return "", errors.New("unavailable")
}

func (f *fixedLLM) Chat(messages []llm.Message, options llm.GenerateOptions) (string, error) {
	return f.reply, nil
}

func (f *fixedLLM) ChatWithContext(ctx context.Context, messages []llm.Message, options llm.GenerateOptions) (string, error) {
	return f.reply, nil
}

func (f *fixedLLM) Model() string    { return "fixed" }
func (f *fixedLLM) Provider() string { return "fixed" }
func (f *fixedLLM) SetModel(string)  {}
func (f *fixedLLM) SetAPIKey(string) {}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	searcher := catalog.NewMemorySearcher()
	searcher.AddProducts(
		&catalog.Product{ID: "lap-001", Name: "Dell XPS 13", Brand: "Dell", Category: "laptop", Price: 32_000_000, Rating: 4.6},
	)

	reg := registry.New(advisor.ToolIntents...)
	if err := builtin.RegisterBuiltin(reg, searcher); err != nil {
		t.Fatalf("register tools: %v", err)
	}

	logger, _ := log.NewLogger(nil)
	adv, err := advisor.New(&fixedLLM{reply: "Dạ, em đã tìm được vài lựa chọn"}, reg, session.NewManager(session.NewMemoryStore()), logger, advisor.Options{})
	if err != nil {
		t.Fatalf("advisor.New: %v", err)
	}
	return NewHandler(adv)
}

func performJSON(t *testing.T, h *server.Hertz, method, path string, body []byte) *ut.ResponseRecorder {
	t.Helper()
	return ut.PerformRequest(h.Engine, method, path,
		&ut.Body{Body: bytes.NewReader(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
}

func TestHealthCheck(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.GET("/api/health", func(ctx context.Context, c *app.RequestContext) {
		handler.HealthCheck(ctx, c)
	})
	w := ut.PerformRequest(h.Engine, "GET", "/api/health", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Errorf("HealthCheck status: got %d", resp.StatusCode())
	}
	if !bytes.Contains(resp.Body(), []byte("ok")) {
		t.Errorf("HealthCheck body: %s", resp.Body())
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.POST("/api/chat", func(ctx context.Context, c *app.RequestContext) {
		handler.Chat(ctx, c)
	})
	body := []byte(`{"message":"   "}`)
	w := performJSON(t, h, "POST", "/api/chat", body)
	resp := w.Result()
	if resp.StatusCode() != 400 {
		t.Errorf("Chat empty message: status got %d, want 400", resp.StatusCode())
	}
}

func TestChat_GreetingTurn(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.POST("/api/chat", func(ctx context.Context, c *app.RequestContext) {
		handler.Chat(ctx, c)
	})
	body := []byte(`{"message":"xin chào"}`)
	w := performJSON(t, h, "POST", "/api/chat", body)
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Fatalf("Chat greeting: status got %d", resp.StatusCode())
	}

	var result advisor.Result
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if result.Intent != "greeting" || !result.Success {
		t.Errorf("result: %+v", result)
	}
	if result.SessionID == "" {
		t.Error("expected generated session id")
	}
}

func TestChat_SessionContinuity(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.POST("/api/chat", func(ctx context.Context, c *app.RequestContext) {
		handler.Chat(ctx, c)
	})
	h.GET("/api/sessions/:id/history", func(ctx context.Context, c *app.RequestContext) {
		handler.SessionHistory(ctx, c)
	})

	body := []byte(`{"message":"tìm laptop dell"}`)
	w := performJSON(t, h, "POST", "/api/chat", body)
	var first advisor.Result
	if err := json.Unmarshal(w.Result().Body(), &first); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	body = []byte(`{"session_id":"` + first.SessionID + `","message":"tìm điện thoại samsung"}`)
	w = performJSON(t, h, "POST", "/api/chat", body)
	var second advisor.Result
	if err := json.Unmarshal(w.Result().Body(), &second); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("session id changed: %s -> %s", first.SessionID, second.SessionID)
	}

	w = ut.PerformRequest(h.Engine, "GET", "/api/sessions/"+first.SessionID+"/history",
		&ut.Body{Body: bytes.NewReader(nil), Len: 0})
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Fatalf("history status: %d", resp.StatusCode())
	}
	var history struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(resp.Body(), &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if history.Total != 2 {
		t.Errorf("history total: got %d, want 2", history.Total)
	}
}

func TestSessionHistory_Unknown(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.GET("/api/sessions/:id/history", func(ctx context.Context, c *app.RequestContext) {
		handler.SessionHistory(ctx, c)
	})
	w := ut.PerformRequest(h.Engine, "GET", "/api/sessions/nope/history",
		&ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if w.Result().StatusCode() != 404 {
		t.Errorf("unknown session history: status got %d, want 404", w.Result().StatusCode())
	}
}

func TestDeleteSession(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.POST("/api/chat", func(ctx context.Context, c *app.RequestContext) {
		handler.Chat(ctx, c)
	})
	h.DELETE("/api/sessions/:id", func(ctx context.Context, c *app.RequestContext) {
		handler.DeleteSession(ctx, c)
	})
	h.GET("/api/sessions/:id/history", func(ctx context.Context, c *app.RequestContext) {
		handler.SessionHistory(ctx, c)
	})

	body := []byte(`{"message":"xin chào"}`)
	w := performJSON(t, h, "POST", "/api/chat", body)
	var result advisor.Result
	if err := json.Unmarshal(w.Result().Body(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	w = ut.PerformRequest(h.Engine, "DELETE", "/api/sessions/"+result.SessionID,
		&ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if w.Result().StatusCode() != 200 {
		t.Fatalf("delete status: %d", w.Result().StatusCode())
	}

	w = ut.PerformRequest(h.Engine, "GET", "/api/sessions/"+result.SessionID+"/history",
		&ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if w.Result().StatusCode() != 404 {
		t.Errorf("history after delete: status got %d, want 404", w.Result().StatusCode())
	}
}

func TestListTools(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.GET("/api/tools", func(ctx context.Context, c *app.RequestContext) {
		handler.ListTools(ctx, c)
	})
	w := ut.PerformRequest(h.Engine, "GET", "/api/tools", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	resp := w.Result()
	if resp.StatusCode() != 200 {
		t.Fatalf("tools status: %d", resp.StatusCode())
	}

	var schemas []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp.Body(), &schemas); err != nil {
		t.Fatalf("unmarshal tools: %v", err)
	}
	if len(schemas) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(schemas))
	}
	names := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		names[s.Name] = true
	}
	for _, want := range []string{"search", "compare", "recommend", "review"} {
		if !names[want] {
			t.Errorf("missing tool %q in %v", want, names)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)
	h := server.Default(server.WithHostPorts(":0"))
	h.GET("/metrics", func(ctx context.Context, c *app.RequestContext) {
		handler.Metrics(ctx, c)
	})
	w := ut.PerformRequest(h.Engine, "GET", "/metrics", &ut.Body{Body: bytes.NewReader(nil), Len: 0})
	if w.Result().StatusCode() != 200 {
		t.Errorf("metrics status: %d", w.Result().StatusCode())
	}
}

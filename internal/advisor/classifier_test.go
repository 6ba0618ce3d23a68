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
	"testing"

	"product-advisor/internal/model/llm"
)

// stubLLM 测试用 LLM 客户端
type stubLLM struct {
	generate func(prompt string) (string, error)
	chat     func(messages []llm.Message) (string, error)
	calls    int
}

func (s *stubLLM) Generate(prompt string, options llm.GenerateOptions) (string, error) {
	return s.GenerateWithContext(context.Background(), prompt, options)
}

func (s *stubLLM) GenerateWithContext(ctx context.Context, prompt string, options llm.GenerateOptions) (string, error) {
	s.calls++
	if s.generate == nil {
		return "", errors.New("no generate stub")
	}
	return s.generate(prompt)
}

func (s *stubLLM) Chat(messages []llm.Message, options llm.GenerateOptions) (string, error) {
	return s.ChatWithContext(context.Background(), messages, options)
}

func (s *stubLLM) ChatWithContext(ctx context.Context, messages []llm.Message, options llm.GenerateOptions) (string, error) {
	if s.chat == nil {
		return "", errors.New("no chat stub")
	}
	return s.chat(messages)
}

func (s *stubLLM) Model() string    { return "stub" }
func (s *stubLLM) Provider() string { return "stub" }
func (s *stubLLM) SetModel(string)  {}
func (s *stubLLM) SetAPIKey(string) {}

func TestClassifier_LLMLabelAccepted(t *testing.T) {
	c := NewClassifier(&stubLLM{generate: func(string) (string, error) { return "search\n", nil }})
	intent, source := c.Classify(context.Background(), "Tìm laptop Dell")
	if intent != IntentSearch || source != "llm" {
		t.Errorf("got (%v, %v)", intent, source)
	}
}

func TestClassifier_InvalidLabelFallsBack(t *testing.T) {
	c := NewClassifier(&stubLLM{generate: func(string) (string, error) { return "banana", nil }})
	intent, source := c.Classify(context.Background(), "so sánh iPhone và Samsung")
	if intent != IntentCompare || source != "rule" {
		t.Errorf("got (%v, %v)", intent, source)
	}
}

func TestClassifier_LLMErrorFallsBack(t *testing.T) {
	c := NewClassifier(&stubLLM{generate: func(string) (string, error) { return "", errors.New("boom") }})
	intent, source := c.Classify(context.Background(), "gợi ý laptop cho sinh viên")
	if intent != IntentRecommend || source != "rule" {
		t.Errorf("got (%v, %v)", intent, source)
	}
}

func TestClassifier_MemoizesLLMResults(t *testing.T) {
	stub := &stubLLM{generate: func(string) (string, error) { return "review", nil }}
	c := NewClassifier(stub)

	c.Classify(context.Background(), "Dell XPS 13 có tốt không?")
	intent, source := c.Classify(context.Background(), "Dell XPS 13 có tốt không?")
	if intent != IntentReview || source != "llm-cache" {
		t.Errorf("got (%v, %v)", intent, source)
	}
	if stub.calls != 1 {
		t.Errorf("expected single llm call, got %d", stub.calls)
	}
}

func TestRuleClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"xin chào shop", IntentGreeting},
		{"chào bạn, tìm laptop dell", IntentSearch},
		{"so sánh iphone 15 và galaxy s24", IntentCompare},
		{"nên mua laptop nào để lập trình", IntentRecommend},
		{"đánh giá dell xps 13", IntentReview},
		{"tìm điện thoại dưới 10 triệu", IntentSearch},
		{"ram là gì", IntentDirect},
	}
	for _, tc := range tests {
		if got := ruleClassify(tc.message); got != tc.want {
			t.Errorf("ruleClassify(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

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
	"fmt"

	"product-advisor/internal/model/llm"
)

// 固定回复（greeting/error 终态与故障兜底）
const (
	greetingReply = "Xin chào! Mình là trợ lý tư vấn mua sắm. Bạn đang tìm laptop, điện thoại hay sản phẩm nào khác ạ?"

	apologyReply = "Xin lỗi, hệ thống đang gặp sự cố khi xử lý yêu cầu của bạn. Bạn vui lòng thử lại sau ít phút nhé."

	setupRequiredReply = "Xin lỗi, dữ liệu sản phẩm chưa được khởi tạo nên mình chưa tra cứu được. Bạn vui lòng liên hệ quản trị viên để nạp dữ liệu trước nhé."
)

// notFoundReply 按名字找不到商品时的回复
func notFoundReply(name string) string {
	if name == "" {
		return "Xin lỗi, mình không tìm thấy sản phẩm bạn nhắc đến. Bạn kiểm tra lại tên giúp mình nhé."
	}
	return fmt.Sprintf("Xin lỗi, mình không tìm thấy sản phẩm %q. Bạn kiểm tra lại tên giúp mình nhé.", name)
}

// Synthesizer 最终回复生成：工具输出 + 对话历史 → 自然语言回复
type Synthesizer struct {
	client llm.Client
	window int // 送入生成的最近对话轮数
}

// NewSynthesizer 创建生成器
func NewSynthesizer(client llm.Client, historyWindow int) *Synthesizer {
	return &Synthesizer{client: client, window: historyWindow}
}

// synthesisOptions 生成调用参数
var synthesisOptions = llm.GenerateOptions{Temperature: 0.7, MaxTokens: 800}

// Respond 生成最终回复
func (s *Synthesizer) Respond(ctx context.Context, message string, toolOutputs map[string]string, entities []string, history []llm.Message) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("synthesizer: llm client not configured")
	}

	contextBlob := buildSynthesisContext(toolOutputs, entities)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: synthesisSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: contextBlob + "\nCâu hỏi của khách: " + message,
	})

	reply, err := s.client.ChatWithContext(ctx, messages, synthesisOptions)
	if err != nil {
		return "", fmt.Errorf("synthesizer: %w", err)
	}
	return reply, nil
}

// Window 返回历史窗口大小
func (s *Synthesizer) Window() int { return s.window }

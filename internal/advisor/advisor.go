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
	"strings"
	"time"

	"product-advisor/internal/advisor/session"
	"product-advisor/internal/catalog"
	"product-advisor/internal/model/llm"
	"product-advisor/internal/tool"
	"product-advisor/internal/tool/registry"
	"product-advisor/pkg/log"
	"product-advisor/pkg/metrics"
)

// ErrEmptyMessage 空消息
var ErrEmptyMessage = errors.New("message must not be empty")

// greetingMarker greeting 终态在 tools_used 中的标记，并非真实工具
const greetingMarker = "handle_greeting"

// defaultTurnTimeout 单轮处理默认超时
const defaultTurnTimeout = 60 * time.Second

// Advisor 对话引擎：分类 → 指代消解 → 参数提取 → 工具 → 生成，
// 每个会话内轮次串行执行。任何协作方故障都转为优雅回复，不向上 panic。
type Advisor struct {
	classifier  *Classifier
	extractor   *Extractor
	registry    *registry.Registry
	sessions    *session.Manager
	synth       *Synthesizer
	logger      *log.Logger
	turnTimeout time.Duration
}

// Options Advisor 配置
type Options struct {
	HistoryWindow int
	TurnTimeout   time.Duration
}

// New 创建 Advisor
func New(client llm.Client, reg *registry.Registry, sessions *session.Manager, logger *log.Logger, opts Options) (*Advisor, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	timeout := opts.TurnTimeout
	if timeout <= 0 {
		timeout = defaultTurnTimeout
	}
	return &Advisor{
		classifier:  NewClassifier(client),
		extractor:   NewExtractor(client),
		registry:    reg,
		sessions:    sessions,
		synth:       NewSynthesizer(client, opts.HistoryWindow),
		logger:      logger,
		turnTimeout: timeout,
	}, nil
}

// Result 单轮处理结果
type Result struct {
	SessionID string          `json:"session_id"`
	Response  string          `json:"response"`
	Intent    string          `json:"intent"`
	Success   bool            `json:"success"`
	ToolsUsed []string        `json:"tools_used,omitempty"`
	Steps     []ReasoningStep `json:"reasoning_steps,omitempty"`
	Err       string          `json:"error,omitempty"`
}

// Process 处理一轮对话
func (a *Advisor) Process(ctx context.Context, sessionID, message string) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sess, err := a.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.BeginTurn()
	defer sess.EndTurn()

	ctx, cancel := context.WithTimeout(ctx, a.turnTimeout)
	defer cancel()

	start := time.Now()
	tr := &trace{}

	snapshot := sess.CopySnapshot()
	resolution := ResolveContext(message, snapshot)
	if resolution.Referenced {
		tr.add("context", "resolved references to: %s", strings.Join(resolution.Entities, ", "))
	}

	var intent Intent
	if resolution.Forced != "" {
		intent = resolution.Forced
		tr.add("classify", "intent=%s source=context", intent)
	} else {
		var source string
		intent, source = a.classifier.Classify(ctx, message)
		tr.add("classify", "intent=%s source=%s", intent, source)
	}

	result := a.runIntent(ctx, intent, message, resolution, snapshot, sess, tr)
	result.SessionID = sess.ID
	result.Intent = string(intent)
	result.Steps = tr.steps

	turn := &session.Turn{
		UserMessage: message,
		Intent:      string(intent),
		ToolOutputs: result.toolOutputs,
		Response:    result.Response,
		Err:         result.Err,
	}
	sess.AddTurn(turn)
	if err := a.sessions.Save(ctx, sess); err != nil {
		a.logger.Error("save session failed", "session_id", sess.ID, "err", err)
	}

	status := "ok"
	if !result.Success {
		status = "error"
	}
	metrics.TurnTotal.WithLabelValues(string(intent), status).Inc()
	metrics.TurnDuration.WithLabelValues(string(intent)).Observe(time.Since(start).Seconds())
	a.logger.Info("turn processed",
		"session_id", sess.ID, "intent", intent, "status", status,
		"tools", strings.Join(result.ToolsUsed, ","), "duration", time.Since(start))

	return &result.Result, nil
}

// turnResult 带工具输出的内部结果
type turnResult struct {
	Result
	toolOutputs map[string]string
}

// runIntent 按意图执行工具与生成阶段
func (a *Advisor) runIntent(ctx context.Context, intent Intent, message string, resolution ContextResolution, snapshot session.MemorySnapshot, sess *session.Session, tr *trace) *turnResult {
	res := &turnResult{}

	switch {
	case intent == IntentGreeting:
		// greeting 终态：不调工具、不调生成
		res.Response = greetingReply
		res.Success = true
		res.ToolsUsed = []string{greetingMarker}
		tr.add("respond", "greeting canned reply")
		return res

	case intent == IntentError:
		res.Response = apologyReply
		tr.add("respond", "error canned reply")
		return res
	}

	toolOutputs := make(map[string]string)

	if intent.UsesTool() {
		input := a.buildToolInput(ctx, intent, message, resolution, tr)

		t, err := a.registry.Resolve(string(intent))
		if err != nil {
			// 注册表在启动时已校验过，这里只可能是内部错误
			a.logger.Error("tool dispatch failed", "intent", intent, "err", err)
			res.Response = apologyReply
			res.Err = err.Error()
			return res
		}

		toolStart := time.Now()
		output, err := t.Execute(ctx, input)
		metrics.ToolDuration.WithLabelValues(t.Name()).Observe(time.Since(toolStart).Seconds())
		tr.add("tool", "%s executed in %s", t.Name(), time.Since(toolStart))

		if err != nil {
			metrics.ToolFailTotal.WithLabelValues(t.Name()).Inc()
			res.Err = err.Error()
			switch {
			case errors.Is(err, catalog.ErrIndexNotReady):
				res.Response = setupRequiredReply
				tr.add("respond", "catalog index not ready")
			case errors.Is(err, tool.ErrNotFound):
				res.Response = notFoundReply(inputProductName(input))
				tr.add("respond", "entity not found")
			default:
				res.Response = apologyReply
				tr.add("respond", "tool failure")
			}
			return res
		}

		toolOutputs[t.Name()] = output.Content
		res.ToolsUsed = append(res.ToolsUsed, t.Name())
	}

	res.toolOutputs = toolOutputs

	history := sess.History(a.synth.Window())
	reply, err := a.synth.Respond(ctx, message, toolOutputs, resolution.Entities, history)
	if err != nil {
		res.Err = err.Error()
		res.Response = apologyReply
		tr.add("respond", "generation failure")
		return res
	}

	res.Response = reply
	res.Success = true
	tr.add("respond", "synthesized reply")
	return res
}

// buildToolInput 组装工具输入：指代命中的对比/评价直接用上一轮实体，
// 其余走两级提取
func (a *Advisor) buildToolInput(ctx context.Context, intent Intent, message string, resolution ContextResolution, tr *trace) map[string]any {
	switch intent {
	case IntentCompare:
		if resolution.Referenced && len(resolution.Entities) >= 2 {
			// 实体顺序与上一轮保持一致
			tr.add("extract", "compare params from context")
			return CompareParams{ProductNames: resolution.Entities}.ToInput()
		}
		p, source := a.extractor.Compare(ctx, message)
		tr.add("extract", "compare params source=%s", source)
		return p.ToInput()

	case IntentReview:
		if resolution.Referenced && len(resolution.Entities) >= 1 {
			tr.add("extract", "review params from context")
			return ReviewParams{ProductName: resolution.Entities[0]}.ToInput()
		}
		p, source := a.extractor.Review(ctx, message)
		tr.add("extract", "review params source=%s", source)
		return p.ToInput()

	case IntentRecommend:
		p, source := a.extractor.Recommend(ctx, message)
		tr.add("extract", "recommend params source=%s", source)
		return p.ToInput()

	default: // search
		p, source := a.extractor.Search(ctx, message)
		tr.add("extract", "search params source=%s", source)
		return p.ToInput()
	}
}

// inputProductName 从工具输入取商品名（用于 not found 回复）
func inputProductName(input map[string]any) string {
	if name, ok := input["product_name"].(string); ok && name != "" {
		return name
	}
	if names, ok := input["product_names"].([]string); ok && len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return ""
}

// ToolSchemas 返回已注册工具的 JSON 描述（供工具清单接口使用）
func (a *Advisor) ToolSchemas() ([]byte, error) {
	return a.registry.SchemasForLLM()
}

// History 返回会话历史（供查询接口使用）；未知会话返回 nil
func (a *Advisor) History(ctx context.Context, sessionID string) ([]*session.Turn, error) {
	sess, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	return sess.CopyTurns(), nil
}

// ClearSession 删除单个会话
func (a *Advisor) ClearSession(ctx context.Context, sessionID string) error {
	return a.sessions.Delete(ctx, sessionID)
}

// ClearAllSessions 清空全部会话
func (a *Advisor) ClearAllSessions(ctx context.Context) error {
	return a.sessions.Reset(ctx)
}

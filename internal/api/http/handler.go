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
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"product-advisor/internal/advisor"
	"product-advisor/pkg/metrics"
)

// Handler HTTP 处理器
type Handler struct {
	advisor *advisor.Advisor
}

// NewHandler 创建 HTTP 处理器
func NewHandler(adv *advisor.Advisor) *Handler {
	return &Handler{advisor: adv}
}

// HealthCheck 健康检查
// GET /api/health
func (h *Handler) HealthCheck(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   "advisor-api",
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Chat 处理一轮对话
// POST /api/chat
func (h *Handler) Chat(c context.Context, ctx *app.RequestContext) {
	var req chatRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}

	result, err := h.advisor.Process(c, req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, advisor.ErrEmptyMessage) {
			ctx.JSON(consts.StatusBadRequest, map[string]string{
				"error": "message is required",
			})
			return
		}
		hlog.CtxErrorf(c, "process turn for session %s failed: %v", req.SessionID, err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "处理对话失败",
		})
		return
	}

	ctx.JSON(consts.StatusOK, result)
}

// SessionHistory 查询会话历史
// GET /api/sessions/:id/history
func (h *Handler) SessionHistory(c context.Context, ctx *app.RequestContext) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	turns, err := h.advisor.History(c, id)
	if err != nil {
		hlog.CtxErrorf(c, "load history for session %s failed: %v", id, err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "获取会话历史失败",
		})
		return
	}
	if turns == nil {
		ctx.JSON(consts.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	ctx.JSON(consts.StatusOK, map[string]interface{}{
		"session_id": id,
		"turns":      turns,
		"total":      len(turns),
	})
}

// DeleteSession 删除单个会话
// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c context.Context, ctx *app.RequestContext) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(consts.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	if err := h.advisor.ClearSession(c, id); err != nil {
		hlog.CtxErrorf(c, "delete session %s failed: %v", id, err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "删除会话失败",
		})
		return
	}

	ctx.JSON(consts.StatusOK, map[string]string{"status": "success"})
}

// ResetSessions 清空全部会话
// DELETE /api/sessions
func (h *Handler) ResetSessions(c context.Context, ctx *app.RequestContext) {
	if err := h.advisor.ClearAllSessions(c); err != nil {
		hlog.CtxErrorf(c, "reset sessions failed: %v", err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "清空会话失败",
		})
		return
	}

	ctx.JSON(consts.StatusOK, map[string]string{"status": "success"})
}

// ListTools 列出可用工具及其参数描述
// GET /api/tools
func (h *Handler) ListTools(c context.Context, ctx *app.RequestContext) {
	body, err := h.advisor.ToolSchemas()
	if err != nil {
		hlog.CtxErrorf(c, "list tools failed: %v", err)
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "获取工具列表失败",
		})
		return
	}
	ctx.Data(consts.StatusOK, "application/json; charset=utf-8", body)
}

// Metrics Prometheus 指标导出
// GET /metrics
func (h *Handler) Metrics(c context.Context, ctx *app.RequestContext) {
	var buf bytes.Buffer
	if err := metrics.WritePrometheus(&buf); err != nil {
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": "导出指标失败",
		})
		return
	}
	ctx.Data(consts.StatusOK, "text/plain; version=0.0.4; charset=utf-8", buf.Bytes())
}

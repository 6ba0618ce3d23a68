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
	"sync"
	"time"

	"github.com/google/uuid"

	"product-advisor/internal/model/llm"
)

// Turn 一轮完整对话：用户输入、识别结果、工具输出与最终回复
type Turn struct {
	ID          string            `json:"id"`
	UserMessage string            `json:"user_message"`
	Intent      string            `json:"intent"`
	Params      map[string]any    `json:"params,omitempty"`
	ToolOutputs map[string]string `json:"tool_outputs,omitempty"` // tool name -> JSON 输出
	Response    string            `json:"response"`
	Err         string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Session 会话：唯一状态载体，单会话内轮次串行执行
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Turns    []*Turn
	Snapshot MemorySnapshot

	// turnMu 串行化同一会话的并发轮次
	turnMu sync.Mutex
	mu     sync.RWMutex
}

// New 创建新 Session（id 为空时自动分配）
func New(id string) *Session {
	now := time.Now()
	if id == "" {
		id = "session-" + uuid.New().String()
	}
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeginTurn 获取本会话的轮次执行权；EndTurn 释放
func (s *Session) BeginTurn() { s.turnMu.Lock() }

// EndTurn 释放轮次执行权
func (s *Session) EndTurn() { s.turnMu.Unlock() }

// AddTurn 追加一轮对话并重算记忆快照（整体替换，不做合并）
func (s *Session) AddTurn(t *Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.UpdatedAt
	}
	if t.ID == "" {
		t.ID = "turn-" + uuid.New().String()
	}
	s.Turns = append(s.Turns, t)
	s.Snapshot = deriveSnapshot(t)
}

// CopySnapshot 返回记忆快照副本（未知会话/无轮次时为空快照）
func (s *Session) CopySnapshot() MemorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := MemorySnapshot{
		LastIntent: s.Snapshot.LastIntent,
	}
	if len(s.Snapshot.Entities) > 0 {
		snap.Entities = make([]string, len(s.Snapshot.Entities))
		copy(snap.Entities, s.Snapshot.Entities)
	}
	if len(s.Snapshot.LastToolOutputs) > 0 {
		snap.LastToolOutputs = make(map[string]string, len(s.Snapshot.LastToolOutputs))
		for k, v := range s.Snapshot.LastToolOutputs {
			snap.LastToolOutputs[k] = v
		}
	}
	return snap
}

// CopyTurns 返回全部轮次副本（供历史查询接口使用）
func (s *Session) CopyTurns() []*Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.Turns) == 0 {
		return nil
	}
	out := make([]*Turn, len(s.Turns))
	copy(out, s.Turns)
	return out
}

// History 返回最近 window 轮的 user/assistant 消息对（最多保留 maxRetainedPairs 轮）
func (s *Session) History(window int) []llm.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if window <= 0 {
		window = defaultHistoryWindow
	}
	if window > maxRetainedPairs {
		window = maxRetainedPairs
	}

	turns := s.Turns
	if len(turns) > window {
		turns = turns[len(turns)-window:]
	}

	out := make([]llm.Message, 0, len(turns)*2)
	for _, t := range turns {
		out = append(out, llm.Message{Role: "user", Content: t.UserMessage})
		out = append(out, llm.Message{Role: "assistant", Content: t.Response})
	}
	return out
}

const (
	defaultHistoryWindow = 3
	maxRetainedPairs     = 5
)

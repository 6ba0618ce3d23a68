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
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"product-advisor/internal/tool"
)

// Registry 工具注册表：按封闭名字集注册与分发
type Registry struct {
	mu    sync.RWMutex
	valid map[string]struct{}
	tools map[string]tool.Tool
}

// New 创建 Registry；allowed 为允许注册的工具名封闭集
func New(allowed ...string) *Registry {
	valid := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		valid[name] = struct{}{}
	}
	return &Registry{
		valid: valid,
		tools: make(map[string]tool.Tool),
	}
}

// Register 注册工具；名字不在封闭集内时报错
func (r *Registry) Register(t tool.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.valid[t.Name()]; !ok {
		return fmt.Errorf("tool %q not in allowed set", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Resolve 按名称取工具；未知名字或未绑定时报错
func (r *Registry) Resolve(name string) (tool.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.valid[name]; !ok {
		return nil, fmt.Errorf("unknown tool name %q", name)
	}
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %q not registered", name)
	}
	return t, nil
}

// Validate 检查封闭集中的每个名字都已绑定工具
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.valid {
		if _, ok := r.tools[name]; !ok {
			return fmt.Errorf("tool %q declared but not registered", name)
		}
	}
	return nil
}

// List 返回所有已注册工具，按名称排序
func (r *Registry) List() []tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tool.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// ToolSchemaForLLM 单个工具供 LLM 使用的描述（name, description, parameters）
type ToolSchemaForLLM struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  tool.Schema `json:"parameters"`
}

// SchemasForLLM 返回所有工具的 Schema 列表（JSON 序列化供提示词与工具清单接口使用）
func (r *Registry) SchemasForLLM() ([]byte, error) {
	tools := r.List()
	list := make([]ToolSchemaForLLM, 0, len(tools))
	for _, t := range tools {
		list = append(list, ToolSchemaForLLM{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema(),
		})
	}
	return json.Marshal(list)
}

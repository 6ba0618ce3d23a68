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
	"encoding/json"
)

// maxEntities 快照保留的实体（商品名）上限
const maxEntities = 3

// MemorySnapshot 会话记忆快照：仅反映最近一轮，整体替换
type MemorySnapshot struct {
	Entities        []string          `json:"entities,omitempty"`
	LastIntent      string            `json:"last_intent,omitempty"`
	LastToolOutputs map[string]string `json:"last_tool_outputs,omitempty"`
}

// deriveSnapshot 从单轮结果重算快照。实体来源按 search > compare > recommend
// 优先级取第一个命中的工具输出，最多保留 maxEntities 个商品名。
func deriveSnapshot(t *Turn) MemorySnapshot {
	snap := MemorySnapshot{
		LastIntent:      t.Intent,
		LastToolOutputs: t.ToolOutputs,
	}

	for _, source := range []string{"search", "compare", "recommend"} {
		raw, ok := t.ToolOutputs[source]
		if !ok || raw == "" {
			continue
		}
		names := extractProductNames(source, raw)
		if len(names) > 0 {
			if len(names) > maxEntities {
				names = names[:maxEntities]
			}
			snap.Entities = names
			break
		}
	}

	return snap
}

// extractProductNames 解析工具 JSON 输出中的商品名列表
func extractProductNames(source, raw string) []string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}

	listKey := "products"
	if source == "recommend" {
		listKey = "recommendations"
	}

	items, ok := payload[listKey].([]any)
	if !ok {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := productName(obj)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// productName 取条目的商品名；推荐条目先探嵌套 product.name，再探平铺字段
func productName(obj map[string]any) string {
	if nested, ok := obj["product"].(map[string]any); ok {
		if name, ok := nested["name"].(string); ok && name != "" {
			return name
		}
	}
	for _, key := range []string{"name", "title", "product_name"} {
		if name, ok := obj[key].(string); ok && name != "" {
			return name
		}
	}
	return ""
}

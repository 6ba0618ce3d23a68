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

// Intent 用户意图，封闭集
type Intent string

const (
	IntentGreeting  Intent = "greeting"
	IntentSearch    Intent = "search"
	IntentCompare   Intent = "compare"
	IntentRecommend Intent = "recommend"
	IntentReview    Intent = "review"
	IntentDirect    Intent = "direct"
	IntentError     Intent = "error"
)

// allIntents 合法意图集合
var allIntents = map[Intent]struct{}{
	IntentGreeting:  {},
	IntentSearch:    {},
	IntentCompare:   {},
	IntentRecommend: {},
	IntentReview:    {},
	IntentDirect:    {},
	IntentError:     {},
}

// ToolIntents 需要调用工具的意图（同时是注册表的封闭名字集）
var ToolIntents = []string{
	string(IntentSearch),
	string(IntentCompare),
	string(IntentRecommend),
	string(IntentReview),
}

// ParseIntent 校验字符串是否为合法意图
func ParseIntent(s string) (Intent, bool) {
	i := Intent(s)
	_, ok := allIntents[i]
	return i, ok
}

// UsesTool 该意图是否需要工具调用
func (i Intent) UsesTool() bool {
	switch i {
	case IntentSearch, IntentCompare, IntentRecommend, IntentReview:
		return true
	}
	return false
}

// Terminal 该意图是否跳过工具与生成阶段直接回复
func (i Intent) Terminal() bool {
	return i == IntentGreeting || i == IntentError
}

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
	"fmt"
	"time"
)

// ReasoningStep 单轮处理中的一个决策记录
type ReasoningStep struct {
	Step   string    `json:"step"`
	Detail string    `json:"detail"`
	At     time.Time `json:"at"`
}

// trace 轮内决策轨迹
type trace struct {
	steps []ReasoningStep
}

// add 追加一条记录
func (t *trace) add(step, format string, args ...any) {
	t.steps = append(t.steps, ReasoningStep{
		Step:   step,
		Detail: fmt.Sprintf(format, args...),
		At:     time.Now(),
	})
}

package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 API 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		TurnDuration, TurnTotal,
		ToolDuration, ToolFailTotal,
		ClassifierFallbackTotal, ExtractorFallbackTotal,
		LLMCallTotal, RateLimitWaitSeconds,
		SessionsActive,
	)
}

// TurnDuration 单轮对话处理耗时（秒），按意图与状态
var TurnDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "advisor_turn_duration_seconds",
		Help:    "单轮对话处理耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"intent"},
)

// TurnTotal 对话轮次总数（按意图与状态）
var TurnTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "advisor_turn_total",
		Help: "对话轮次总数（按意图与状态）",
	},
	[]string{"intent", "status"}, // ok | error
)

// ToolDuration 工具调用耗时（秒）
var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "advisor_tool_duration_seconds",
		Help:    "工具调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool"},
)

// ToolFailTotal 工具调用失败总数
var ToolFailTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "advisor_tool_fail_total",
		Help: "工具调用失败总数",
	},
	[]string{"tool"},
)

// ClassifierFallbackTotal 意图分类降级到规则层的次数
var ClassifierFallbackTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "advisor_classifier_fallback_total",
		Help: "意图分类降级到规则层的次数",
	},
)

// ExtractorFallbackTotal 参数提取降级到规则层的次数（按意图）
var ExtractorFallbackTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "advisor_extractor_fallback_total",
		Help: "参数提取降级到规则层的次数",
	},
	[]string{"intent"},
)

// LLMCallTotal LLM 调用总数（按提供商与结果）
var LLMCallTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "advisor_llm_call_total",
		Help: "LLM 调用总数（按提供商与结果）",
	},
	[]string{"provider", "status"}, // ok | error
)

// RateLimitWaitSeconds 限流等待耗时（秒）
var RateLimitWaitSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "advisor_rate_limit_wait_seconds",
		Help:    "限流等待耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"component", "provider"},
)

// SessionsActive 当前活跃会话数
var SessionsActive = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "advisor_sessions_active",
		Help: "当前活跃会话数",
	},
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 等复用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

package news

import "time"

// TTLPolicy 各紧急层级的缓存保留时长。数值可配置，但必须保持 critical > high > medium > low 的顺序语义
type TTLPolicy struct {
	Critical time.Duration
	High     time.Duration
	Medium   time.Duration
	Low      time.Duration
}

// DefaultTTLPolicy 默认保留策略：critical 24h / high 12h / medium 6h / low 3h
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Critical: 24 * time.Hour,
		High:     12 * time.Hour,
		Medium:   6 * time.Hour,
		Low:      3 * time.Hour,
	}
}

// TTL 返回某个紧急层级对应的保留时长，未知层级按最短的 low 处理
func (p TTLPolicy) TTL(urgency string) time.Duration {
	switch urgency {
	case UrgencyCritical:
		return p.Critical
	case UrgencyHigh:
		return p.High
	case UrgencyMedium:
		return p.Medium
	default:
		return p.Low
	}
}

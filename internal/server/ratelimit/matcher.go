package ratelimit

import (
	"strings"
	"time"
)

// Rule limits one method on one path. A Path ending in "/" matches every path below it.
type Rule struct {
	Method string
	Path   string
	Limit  int
	Window time.Duration
	Burst  int
}

func (r Rule) burst() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

func (r Rule) rate() float64 {
	if r.Window <= 0 {
		return 0
	}
	return float64(r.Limit) / r.Window.Seconds()
}

// key groups requests sharing a bucket. Prefix rules share one bucket for all paths below them.
func (r Rule) key(path string) string {
	if r.Path == "" {
		return path
	}
	return r.Path
}

// matches reports whether the rule applies, preferring exact paths over prefixes.
func (r Rule) matches(path, method string) (exact, prefix bool) {
	if r.Method != method {
		return false, false
	}
	if r.Path == path {
		return true, false
	}
	return false, strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path)
}

// MatchRule returns the rule for path and method, or nil. Exact matches win over prefix
// matches and longer prefixes win over shorter ones.
func MatchRule(path, method string, rules []Rule) *Rule {
	var best *Rule
	for i := range rules {
		exact, prefix := rules[i].matches(path, method)
		if exact {
			return &rules[i]
		}
		if prefix && (best == nil || len(rules[i].Path) > len(best.Path)) {
			best = &rules[i]
		}
	}
	return best
}

func (c *Config) ruleFor(path, method string) Rule {
	if method == "GET" && path == "/health" {
		return Rule{}
	}
	if rule := MatchRule(path, method, c.Rules); rule != nil {
		return *rule
	}
	return Rule{Limit: c.DefaultLimit, Window: c.DefaultWindow}
}

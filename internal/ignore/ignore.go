// Package ignore loads .magnusignore rules and decides which remote entries a
// pull skips.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FileName is the ignore file read from the invocation directory.
const FileName = ".magnusignore"

// Rules is an ordered, immutable set of ignore patterns.
type Rules struct {
	rules []rule
}

type rule struct {
	pattern string
	glob    *regexp.Regexp // nil unless pattern contains "*"
}

// Load reads the ignore file in dir. A missing or unreadable file yields an
// empty rule set.
func Load(dir string) Rules {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return Rules{}
	}
	return Parse(string(data))
}

// Parse builds rules from ignore file content, one pattern per line. Blank
// lines and lines starting with "#" are dropped.
func Parse(content string) Rules {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return New(patterns...)
}

// New builds rules from patterns in order.
func New(patterns ...string) Rules {
	rs := Rules{rules: make([]rule, 0, len(patterns))}
	for _, p := range patterns {
		r := rule{pattern: p}
		if strings.Contains(p, "*") {
			r.glob = globToRegexp(p)
		}
		rs.rules = append(rs.rules, r)
	}
	return rs
}

// Len returns the number of patterns.
func (rs Rules) Len() int {
	return len(rs.rules)
}

// Patterns returns the patterns in load order.
func (rs Rules) Patterns() []string {
	out := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.pattern
	}
	return out
}

// Match reports whether candidate is excluded. A rule matches on equality,
// suffix, substring, or, for patterns containing "*", a full-string glob.
func (rs Rules) Match(candidate string) bool {
	for _, r := range rs.rules {
		if r.matches(candidate) {
			return true
		}
	}
	return false
}

// ShouldIgnore reports whether candidate is excluded by rules.
func ShouldIgnore(candidate string, rules Rules) bool {
	return rules.Match(candidate)
}

func (r rule) matches(candidate string) bool {
	if candidate == r.pattern || strings.HasSuffix(candidate, r.pattern) || strings.Contains(candidate, r.pattern) {
		return true
	}
	return r.glob != nil && r.glob.MatchString(candidate)
}

// globToRegexp escapes everything but "*", which matches any sequence.
func globToRegexp(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}

package types

import (
	"fmt"
	"strings"
)

// ProtectionRule exempts resources carrying an exact tag key/value pair from
// deletion. A nil rule means no filtering: everything found gets deleted.
// Matching is case-sensitive and exact, no wildcard or prefix semantics.
type ProtectionRule struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// Matches reports whether the tag set carries the rule's key with exactly
// the rule's value.
func (r *ProtectionRule) Matches(tags map[string]string) bool {
	if r == nil {
		return false
	}
	v, ok := tags[r.Key]
	return ok && v == r.Value
}

func (r *ProtectionRule) String() string {
	if r == nil {
		return "<none>"
	}
	return r.Key + "=" + r.Value
}

// ParseProtectionRule parses the CLI's KEY=VALUE form.
func ParseProtectionRule(s string) (*ProtectionRule, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return nil, fmt.Errorf("invalid protection rule %q: want KEY=VALUE", s)
	}
	return &ProtectionRule{Key: key, Value: value}, nil
}

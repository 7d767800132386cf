package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectionRuleMatches(t *testing.T) {
	tests := []struct {
		name string
		rule *ProtectionRule
		tags map[string]string
		want bool
	}{
		{
			name: "exact match",
			rule: &ProtectionRule{Key: "keep", Value: "true"},
			tags: map[string]string{"keep": "true"},
			want: true,
		},
		{
			name: "value mismatch",
			rule: &ProtectionRule{Key: "keep", Value: "true"},
			tags: map[string]string{"keep": "false"},
			want: false,
		},
		{
			name: "key absent",
			rule: &ProtectionRule{Key: "keep", Value: "true"},
			tags: map[string]string{"team": "platform"},
			want: false,
		},
		{
			name: "case sensitive key",
			rule: &ProtectionRule{Key: "Keep", Value: "true"},
			tags: map[string]string{"keep": "true"},
			want: false,
		},
		{
			name: "case sensitive value",
			rule: &ProtectionRule{Key: "keep", Value: "True"},
			tags: map[string]string{"keep": "true"},
			want: false,
		},
		{
			name: "nil rule never matches",
			rule: nil,
			tags: map[string]string{"keep": "true"},
			want: false,
		},
		{
			name: "empty tag set",
			rule: &ProtectionRule{Key: "keep", Value: "true"},
			tags: map[string]string{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(tt.tags))
		})
	}
}

func TestParseProtectionRule(t *testing.T) {
	rule, err := ParseProtectionRule("keep=true")
	require.NoError(t, err)
	assert.Equal(t, "keep", rule.Key)
	assert.Equal(t, "true", rule.Value)
}

func TestParseProtectionRuleEmptyValue(t *testing.T) {
	// "key=" is a legal rule matching an empty tag value.
	rule, err := ParseProtectionRule("keep=")
	require.NoError(t, err)
	assert.Equal(t, "keep", rule.Key)
	assert.Empty(t, rule.Value)
}

func TestParseProtectionRuleInvalid(t *testing.T) {
	for _, input := range []string{"", "keep", "=true"} {
		_, err := ParseProtectionRule(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestProtectionRuleString(t *testing.T) {
	var nilRule *ProtectionRule
	assert.Equal(t, "<none>", nilRule.String())
	assert.Equal(t, "keep=true", (&ProtectionRule{Key: "keep", Value: "true"}).String())
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeString(t *testing.T) {
	assert.Equal(t, "global", GlobalScope().String())
	assert.Equal(t, "eu-north-1", RegionalScope("eu-north-1").String())
}

func TestScopeIsGlobal(t *testing.T) {
	assert.True(t, GlobalScope().IsGlobal())
	assert.False(t, RegionalScope("us-east-1").IsGlobal())
}

func TestResourceDescriptorString(t *testing.T) {
	d := ResourceDescriptor{
		Kind:     "s3_bucket",
		Scope:    GlobalScope(),
		Identity: "build-artifacts",
	}
	assert.Equal(t, "s3_bucket/build-artifacts@global", d.String())
}

package aws

import (
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
)

func TestConvertTagsSliceOfStructs(t *testing.T) {
	tags := []ec2types.Tag{
		{Key: awssdk.String("keep"), Value: awssdk.String("true")},
		{Key: awssdk.String("team"), Value: awssdk.String("platform")},
	}

	result := convertTags(tags)

	assert.Equal(t, map[string]string{"keep": "true", "team": "platform"}, result)
}

func TestConvertTagsS3TagSet(t *testing.T) {
	tags := []s3types.Tag{
		{Key: awssdk.String("env"), Value: awssdk.String("staging")},
	}

	assert.Equal(t, map[string]string{"env": "staging"}, convertTags(tags))
}

func TestConvertTagsStringMap(t *testing.T) {
	// Lambda, EKS and SQS return plain string maps.
	tags := map[string]string{"keep": "true"}

	assert.Equal(t, map[string]string{"keep": "true"}, convertTags(tags))
}

func TestConvertTagsPointerMap(t *testing.T) {
	tags := map[string]*string{"keep": awssdk.String("true")}

	assert.Equal(t, map[string]string{"keep": "true"}, convertTags(tags))
}

func TestConvertTagsNil(t *testing.T) {
	result := convertTags(nil)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestConvertTagsNilValues(t *testing.T) {
	tags := []ec2types.Tag{
		{Key: awssdk.String("orphaned"), Value: nil},
		{Key: nil, Value: awssdk.String("ignored")},
	}

	assert.Equal(t, map[string]string{"orphaned": ""}, convertTags(tags))
}

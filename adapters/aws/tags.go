package aws

import (
	"context"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// convertTags converts ANY AWS tag shape to a plain map using reflection.
// Services disagree on tag representation (slices of Key/Value structs,
// string maps, pointer maps); one converter keeps the adapters flat.
func convertTags(tags interface{}) map[string]string {
	result := map[string]string{}

	if tags == nil {
		return result
	}

	v := reflect.ValueOf(tags)

	switch v.Kind() {
	case reflect.Slice:
		// Slice of tag structs (most AWS services)
		for i := 0; i < v.Len(); i++ {
			key, value := extractTagKeyValue(v.Index(i).Interface())
			if key != "" {
				result[key] = value
			}
		}

	case reflect.Map:
		// map[string]string or map[string]*string (Lambda, EKS, SQS, logs)
		for _, mapKey := range v.MapKeys() {
			key := mapKey.String()
			value := extractStringValue(v.MapIndex(mapKey).Interface())
			if key != "" {
				result[key] = value
			}
		}
	}

	return result
}

// extractTagKeyValue extracts Key and Value fields from any AWS tag struct.
func extractTagKeyValue(tag interface{}) (string, string) {
	v := reflect.ValueOf(tag)

	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	var key, value string

	if keyField := v.FieldByName("Key"); keyField.IsValid() {
		key = extractStringValue(keyField.Interface())
	}

	if valueField := v.FieldByName("Value"); valueField.IsValid() {
		value = extractStringValue(valueField.Interface())
	}

	return key, value
}

// extractStringValue handles *string and string types.
func extractStringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case *string:
		return aws.ToString(val)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.String {
			return rv.String()
		}
		return ""
	}
}

// lookupEC2Tags reads tags for any EC2-family resource id (allocation,
// NAT gateway, snapshot) via the shared DescribeTags API.
func (p *Provider) lookupEC2Tags(ctx context.Context, region, resourceID string) (map[string]string, error) {
	out, err := p.ec2(region).DescribeTags(ctx, &ec2.DescribeTagsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("resource-id"), Values: []string{resourceID}},
		},
	})
	if err != nil {
		return nil, err
	}

	tags := make(map[string]string, len(out.Tags))
	for _, t := range out.Tags {
		tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return tags, nil
}

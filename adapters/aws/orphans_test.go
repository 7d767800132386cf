package aws

import (
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotIDsFromImages(t *testing.T) {
	images := []ec2types.Image{
		{
			BlockDeviceMappings: []ec2types.BlockDeviceMapping{
				{Ebs: &ec2types.EbsBlockDevice{SnapshotId: awssdk.String("snap-1")}},
				{Ebs: &ec2types.EbsBlockDevice{SnapshotId: awssdk.String("snap-2")}},
			},
		},
		{
			BlockDeviceMappings: []ec2types.BlockDeviceMapping{
				// Ephemeral mapping without an EBS backing.
				{Ebs: nil},
				{Ebs: &ec2types.EbsBlockDevice{SnapshotId: awssdk.String("snap-3")}},
			},
		},
	}

	ids := snapshotIDsFromImages(images)

	assert.Equal(t, map[string]bool{"snap-1": true, "snap-2": true, "snap-3": true}, ids)
}

func TestSnapshotIDsFromImagesEmpty(t *testing.T) {
	assert.Empty(t, snapshotIDsFromImages(nil))
}

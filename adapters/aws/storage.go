package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// s3BucketAdapter sweeps S3 buckets. Buckets are a global namespace listed
// once per run; deletion routes to the bucket's own region because S3
// rejects cross-region mutations.
type s3BucketAdapter struct {
	p *Provider
}

func (a *s3BucketAdapter) Kind() string                { return "s3_bucket" }
func (a *s3BucketAdapter) Category() adapters.Category { return adapters.CategoryServices }
func (a *s3BucketAdapter) Global() bool                { return true }

func (a *s3BucketAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	out, err := a.p.s3(a.p.cfg.Region).ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	descriptors := make([]types.ResourceDescriptor, 0, len(out.Buckets))
	for _, bucket := range out.Buckets {
		name := aws.ToString(bucket.Name)
		descriptors = append(descriptors, types.ResourceDescriptor{
			Kind:     a.Kind(),
			Scope:    scope,
			Identity: name,
			ARN:      "arn:aws:s3:::" + name,
		})
	}
	return descriptors, nil
}

func (a *s3BucketAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	client, err := a.bucketClient(ctx, d.Identity)
	if err != nil {
		return err
	}

	// A bucket must be completely empty before DeleteBucket succeeds:
	// versions and delete markers, then current objects, then any
	// in-flight multipart uploads.
	if err := a.deleteVersions(ctx, client, d.Identity); err != nil {
		return err
	}
	if err := a.deleteObjects(ctx, client, d.Identity); err != nil {
		return err
	}
	if err := a.abortMultipartUploads(ctx, client, d.Identity); err != nil {
		return err
	}

	_, err = client.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(d.Identity),
	})
	return err
}

func (a *s3BucketAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	client, err := a.bucketClient(ctx, d.Identity)
	if err != nil {
		return nil, err
	}

	out, err := client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
		Bucket: aws.String(d.Identity),
	})
	if err != nil {
		// Untagged buckets return an error instead of an empty set.
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchTagSet" {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return convertTags(out.TagSet), nil
}

// bucketClient resolves the bucket's home region and returns a client bound
// to it.
func (a *s3BucketAdapter) bucketClient(ctx context.Context, bucket string) (*s3.Client, error) {
	out, err := a.p.s3(a.p.cfg.Region).GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to locate bucket %s: %w", bucket, err)
	}

	region := string(out.LocationConstraint)
	if region == "" {
		// us-east-1 reports an empty constraint.
		region = "us-east-1"
	}
	return a.p.s3(region), nil
}

func (a *s3BucketAdapter) deleteVersions(ctx context.Context, client *s3.Client, bucket string) error {
	paginator := s3.NewListObjectVersionsPaginator(client, &s3.ListObjectVersionsInput{
		Bucket: aws.String(bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list object versions: %w", err)
		}

		var objects []s3types.ObjectIdentifier
		for _, version := range page.Versions {
			objects = append(objects, s3types.ObjectIdentifier{
				Key:       version.Key,
				VersionId: version.VersionId,
			})
		}
		for _, marker := range page.DeleteMarkers {
			objects = append(objects, s3types.ObjectIdentifier{
				Key:       marker.Key,
				VersionId: marker.VersionId,
			})
		}

		if err := deleteBatch(ctx, client, bucket, objects); err != nil {
			return err
		}
	}
	return nil
}

func (a *s3BucketAdapter) deleteObjects(ctx context.Context, client *s3.Client, bucket string) error {
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}

		objects := make([]s3types.ObjectIdentifier, 0, len(page.Contents))
		for _, object := range page.Contents {
			objects = append(objects, s3types.ObjectIdentifier{Key: object.Key})
		}

		if err := deleteBatch(ctx, client, bucket, objects); err != nil {
			return err
		}
	}
	return nil
}

func (a *s3BucketAdapter) abortMultipartUploads(ctx context.Context, client *s3.Client, bucket string) error {
	paginator := s3.NewListMultipartUploadsPaginator(client, &s3.ListMultipartUploadsInput{
		Bucket: aws.String(bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list multipart uploads: %w", err)
		}
		for _, upload := range page.Uploads {
			_, err := client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
				Bucket:   aws.String(bucket),
				Key:      upload.Key,
				UploadId: upload.UploadId,
			})
			if err != nil {
				return fmt.Errorf("failed to abort multipart upload %s: %w", aws.ToString(upload.Key), err)
			}
		}
	}
	return nil
}

// deleteBatch issues DeleteObjects in chunks of the API's 1000-key limit.
func deleteBatch(ctx context.Context, client *s3.Client, bucket string, objects []s3types.ObjectIdentifier) error {
	const batchSize = 1000

	for start := 0; start < len(objects); start += batchSize {
		end := start + batchSize
		if end > len(objects) {
			end = len(objects)
		}

		_, err := client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &s3types.Delete{
				Objects: objects[start:end],
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects: %w", err)
		}
	}
	return nil
}

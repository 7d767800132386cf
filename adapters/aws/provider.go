// Package aws implements the sweep adapters for AWS. Each resource kind is
// one adapter; the engine never special-cases any of them.
package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/memorydb"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/redshift"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

func init() {
	adapters.RegisterProvider("aws", NewProviderFactory)
}

// NewProviderFactory creates the AWS provider for the registry.
func NewProviderFactory(ctx context.Context, cfg adapters.ProviderConfig) (adapters.Provider, error) {
	return NewProvider(ctx, cfg)
}

// Provider holds the shared AWS config and hands out region-bound clients.
// Clients are cheap to construct from the base config, so no caching.
type Provider struct {
	cfg     aws.Config
	regions []string
	exclude map[string]bool
}

// NewProvider loads the default credential chain. Failure here is the fatal
// startup class: nothing can be swept without credentials.
func NewProvider(ctx context.Context, pc adapters.ProviderConfig) (*Provider, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	exclude := make(map[string]bool, len(pc.ExcludeKinds))
	for _, kind := range pc.ExcludeKinds {
		exclude[kind] = true
	}

	return &Provider{cfg: cfg, regions: pc.Regions, exclude: exclude}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "aws"
}

// ListScopes enumerates enabled regions once per run. This call doubles as
// the credential check: if it fails, the run aborts before any deletion.
func (p *Provider) ListScopes(ctx context.Context) ([]types.Scope, error) {
	if len(p.regions) > 0 {
		scopes := make([]types.Scope, 0, len(p.regions))
		for _, region := range p.regions {
			scopes = append(scopes, types.RegionalScope(region))
		}
		return scopes, nil
	}

	out, err := p.ec2(p.cfg.Region).DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate regions: %w", err)
	}

	scopes := make([]types.Scope, 0, len(out.Regions))
	for _, region := range out.Regions {
		scopes = append(scopes, types.RegionalScope(aws.ToString(region.RegionName)))
	}
	return scopes, nil
}

// Adapters returns every adapter not excluded by configuration, any order.
func (p *Provider) Adapters() []adapters.ResourceAdapter {
	all := []adapters.ResourceAdapter{
		// control-plane
		&eksClusterAdapter{p: p},
		&ecsClusterAdapter{p: p},
		&lambdaFunctionAdapter{p: p},
		// data
		&rdsInstanceAdapter{p: p},
		&rdsSnapshotAdapter{p: p},
		&dynamoTableAdapter{p: p},
		&memorydbClusterAdapter{p: p},
		&redshiftClusterAdapter{p: p},
		// network
		&elasticIPAdapter{p: p},
		&natGatewayAdapter{p: p},
		&loadBalancerAdapter{p: p},
		// services
		&ecrRepositoryAdapter{p: p},
		&sqsQueueAdapter{p: p},
		&logGroupAdapter{p: p},
		&cloudtrailTrailAdapter{p: p},
		&s3BucketAdapter{p: p},
		// orphans
		&orphanSnapshotAdapter{p: p},
	}

	kept := make([]adapters.ResourceAdapter, 0, len(all))
	for _, a := range all {
		if !p.exclude[a.Kind()] {
			kept = append(kept, a)
		}
	}
	return kept
}

// Region-bound client constructors.

func (p *Provider) ec2(region string) *ec2.Client {
	return ec2.NewFromConfig(p.cfg, func(o *ec2.Options) { o.Region = region })
}

func (p *Provider) eks(region string) *eks.Client {
	return eks.NewFromConfig(p.cfg, func(o *eks.Options) { o.Region = region })
}

func (p *Provider) ecs(region string) *ecs.Client {
	return ecs.NewFromConfig(p.cfg, func(o *ecs.Options) { o.Region = region })
}

func (p *Provider) lambda(region string) *lambda.Client {
	return lambda.NewFromConfig(p.cfg, func(o *lambda.Options) { o.Region = region })
}

func (p *Provider) rds(region string) *rds.Client {
	return rds.NewFromConfig(p.cfg, func(o *rds.Options) { o.Region = region })
}

func (p *Provider) dynamodb(region string) *dynamodb.Client {
	return dynamodb.NewFromConfig(p.cfg, func(o *dynamodb.Options) { o.Region = region })
}

func (p *Provider) memorydb(region string) *memorydb.Client {
	return memorydb.NewFromConfig(p.cfg, func(o *memorydb.Options) { o.Region = region })
}

func (p *Provider) redshift(region string) *redshift.Client {
	return redshift.NewFromConfig(p.cfg, func(o *redshift.Options) { o.Region = region })
}

func (p *Provider) elbv2(region string) *elasticloadbalancingv2.Client {
	return elasticloadbalancingv2.NewFromConfig(p.cfg, func(o *elasticloadbalancingv2.Options) { o.Region = region })
}

func (p *Provider) ecr(region string) *ecr.Client {
	return ecr.NewFromConfig(p.cfg, func(o *ecr.Options) { o.Region = region })
}

func (p *Provider) sqs(region string) *sqs.Client {
	return sqs.NewFromConfig(p.cfg, func(o *sqs.Options) { o.Region = region })
}

func (p *Provider) logs(region string) *cloudwatchlogs.Client {
	return cloudwatchlogs.NewFromConfig(p.cfg, func(o *cloudwatchlogs.Options) { o.Region = region })
}

func (p *Provider) cloudtrail(region string) *cloudtrail.Client {
	return cloudtrail.NewFromConfig(p.cfg, func(o *cloudtrail.Options) { o.Region = region })
}

func (p *Provider) s3(region string) *s3.Client {
	return s3.NewFromConfig(p.cfg, func(o *s3.Options) { o.Region = region })
}

// maxWait converts the executor's context deadline into the explicit wait
// bound the SDK waiters require.
func maxWait(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}
	return 5 * time.Minute
}

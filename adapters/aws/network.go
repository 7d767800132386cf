package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"

	"github.com/yairfalse/raivaus/adapters"
	"github.com/yairfalse/raivaus/types"
)

// elasticIPAdapter sweeps unattached Elastic IPs. An address still associated
// with an instance or NAT gateway is in use and never reported.
type elasticIPAdapter struct {
	p *Provider
}

func (a *elasticIPAdapter) Kind() string                { return "elastic_ip" }
func (a *elasticIPAdapter) Category() adapters.Category { return adapters.CategoryNetwork }
func (a *elasticIPAdapter) Global() bool                { return false }

func (a *elasticIPAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	out, err := a.p.ec2(scope.Region).DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe addresses: %w", err)
	}

	var descriptors []types.ResourceDescriptor
	for _, addr := range out.Addresses {
		if addr.AssociationId != nil {
			continue
		}
		descriptors = append(descriptors, types.ResourceDescriptor{
			Kind:     a.Kind(),
			Scope:    scope,
			Identity: aws.ToString(addr.AllocationId),
			ARN:      aws.ToString(addr.PublicIp),
		})
	}
	return descriptors, nil
}

func (a *elasticIPAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.ec2(d.Scope.Region).ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
		AllocationId: aws.String(d.Identity),
	})
	return err
}

func (a *elasticIPAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	return a.p.lookupEC2Tags(ctx, d.Scope.Region, d.Identity)
}

// natGatewayAdapter sweeps NAT gateways.
type natGatewayAdapter struct {
	p *Provider
}

func (a *natGatewayAdapter) Kind() string                { return "nat_gateway" }
func (a *natGatewayAdapter) Category() adapters.Category { return adapters.CategoryNetwork }
func (a *natGatewayAdapter) Global() bool                { return false }

func (a *natGatewayAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.ec2(scope.Region)
	paginator := ec2.NewDescribeNatGatewaysPaginator(client, &ec2.DescribeNatGatewaysInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe NAT gateways: %w", err)
		}
		for _, gw := range page.NatGateways {
			state := string(gw.State)
			if state == "deleted" || state == "deleting" {
				continue
			}
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(gw.NatGatewayId),
				ARN:      aws.ToString(gw.NatGatewayId),
			})
		}
	}
	return descriptors, nil
}

func (a *natGatewayAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.ec2(d.Scope.Region).DeleteNatGateway(ctx, &ec2.DeleteNatGatewayInput{
		NatGatewayId: aws.String(d.Identity),
	})
	return err
}

func (a *natGatewayAdapter) AwaitTerminal(ctx context.Context, d types.ResourceDescriptor) error {
	waiter := ec2.NewNatGatewayDeletedWaiter(a.p.ec2(d.Scope.Region))
	return waiter.Wait(ctx, &ec2.DescribeNatGatewaysInput{
		NatGatewayIds: []string{d.Identity},
	}, maxWait(ctx))
}

func (a *natGatewayAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	return a.p.lookupEC2Tags(ctx, d.Scope.Region, d.Identity)
}

// loadBalancerAdapter sweeps ALBs and NLBs. Classic load balancers use a
// different API family and are left alone.
type loadBalancerAdapter struct {
	p *Provider
}

func (a *loadBalancerAdapter) Kind() string                { return "load_balancer" }
func (a *loadBalancerAdapter) Category() adapters.Category { return adapters.CategoryNetwork }
func (a *loadBalancerAdapter) Global() bool                { return false }

func (a *loadBalancerAdapter) Discover(ctx context.Context, scope types.Scope) ([]types.ResourceDescriptor, error) {
	client := a.p.elbv2(scope.Region)
	paginator := elasticloadbalancingv2.NewDescribeLoadBalancersPaginator(client, &elasticloadbalancingv2.DescribeLoadBalancersInput{})

	var descriptors []types.ResourceDescriptor
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancers: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			descriptors = append(descriptors, types.ResourceDescriptor{
				Kind:     a.Kind(),
				Scope:    scope,
				Identity: aws.ToString(lb.LoadBalancerName),
				ARN:      aws.ToString(lb.LoadBalancerArn),
			})
		}
	}
	return descriptors, nil
}

func (a *loadBalancerAdapter) Delete(ctx context.Context, d types.ResourceDescriptor) error {
	_, err := a.p.elbv2(d.Scope.Region).DeleteLoadBalancer(ctx, &elasticloadbalancingv2.DeleteLoadBalancerInput{
		LoadBalancerArn: aws.String(d.ARN),
	})
	return err
}

func (a *loadBalancerAdapter) AwaitTerminal(ctx context.Context, d types.ResourceDescriptor) error {
	waiter := elasticloadbalancingv2.NewLoadBalancersDeletedWaiter(a.p.elbv2(d.Scope.Region))
	return waiter.Wait(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{
		LoadBalancerArns: []string{d.ARN},
	}, maxWait(ctx))
}

func (a *loadBalancerAdapter) LookupTags(ctx context.Context, d types.ResourceDescriptor) (map[string]string, error) {
	out, err := a.p.elbv2(d.Scope.Region).DescribeTags(ctx, &elasticloadbalancingv2.DescribeTagsInput{
		ResourceArns: []string{d.ARN},
	})
	if err != nil {
		return nil, err
	}
	if len(out.TagDescriptions) == 0 {
		return map[string]string{}, nil
	}
	return convertTags(out.TagDescriptions[0].Tags), nil
}

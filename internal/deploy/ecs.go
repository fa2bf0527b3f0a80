// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package deploy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// StableWaitCap bounds the ECS stability wait. Fargate rollouts of
// these services settle in a few minutes; past fifteen something is
// wrong and waiting longer only hides it.
const StableWaitCap = 15 * time.Minute

// ECSAPI is the slice of the ECS client the deploy path needs.
type ECSAPI interface {
	UpdateService(ctx context.Context, in *ecs.UpdateServiceInput, opts ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error)
	ecs.DescribeServicesAPIClient
}

// ForceRedeploy asks ECS to start a fresh deployment of the service
// without changing its task definition. The task definition references
// the :latest tag, so fresh tasks pull whatever was just pushed.
func ForceRedeploy(ctx context.Context, api ECSAPI, cluster, service string) error {
	_, err := api.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:            aws.String(cluster),
		Service:            aws.String(service),
		ForceNewDeployment: true,
	})
	if err != nil {
		return fmt.Errorf("forcing new deployment of %s in %s: %w", service, cluster, err)
	}
	return nil
}

// WaitStable blocks until the services reach a steady state, using the
// service's own stability waiter. maxWait values above StableWaitCap
// are clamped.
func WaitStable(ctx context.Context, api ecs.DescribeServicesAPIClient, cluster string, services []string, maxWait time.Duration) error {
	if maxWait <= 0 || maxWait > StableWaitCap {
		maxWait = StableWaitCap
	}

	w := ecs.NewServicesStableWaiter(api)
	err := w.Wait(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: services,
	}, maxWait)
	if err != nil {
		return fmt.Errorf("waiting for %s to stabilize: %w", strings.Join(services, ", "), err)
	}
	return nil
}

// ServiceState is a point-in-time view of one ECS service.
type ServiceState struct {
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	Desired        int32     `json:"desired"`
	Running        int32     `json:"running"`
	Pending        int32     `json:"pending"`
	TaskDefinition string    `json:"task_definition"`
	RolloutState   string    `json:"rollout_state,omitempty"`
	DeployedAt     time.Time `json:"deployed_at,omitzero"`
}

// Describe reports the current state of the named services. A service
// ECS does not know about fails the call rather than vanishing from
// the output.
func Describe(ctx context.Context, api ECSAPI, cluster string, services []string) ([]ServiceState, error) {
	out, err := api.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: services,
	})
	if err != nil {
		return nil, fmt.Errorf("describing services in %s: %w", cluster, err)
	}
	if len(out.Failures) > 0 {
		parts := make([]string, 0, len(out.Failures))
		for _, f := range out.Failures {
			parts = append(parts, fmt.Sprintf("%s (%s)", aws.ToString(f.Arn), aws.ToString(f.Reason)))
		}
		return nil, fmt.Errorf("describing services in %s: %s", cluster, strings.Join(parts, ", "))
	}

	states := make([]ServiceState, 0, len(out.Services))
	for _, svc := range out.Services {
		st := ServiceState{
			Name:           aws.ToString(svc.ServiceName),
			Status:         aws.ToString(svc.Status),
			Desired:        svc.DesiredCount,
			Running:        svc.RunningCount,
			Pending:        svc.PendingCount,
			TaskDefinition: shortTaskDef(aws.ToString(svc.TaskDefinition)),
		}
		if d, ok := primaryDeployment(svc.Deployments); ok {
			st.RolloutState = string(d.RolloutState)
			if d.UpdatedAt != nil {
				st.DeployedAt = *d.UpdatedAt
			}
		}
		states = append(states, st)
	}
	return states, nil
}

func primaryDeployment(deps []types.Deployment) (types.Deployment, bool) {
	for _, d := range deps {
		if aws.ToString(d.Status) == "PRIMARY" {
			return d, true
		}
	}
	return types.Deployment{}, false
}

// shortTaskDef trims an ARN down to family:revision.
func shortTaskDef(arn string) string {
	if i := strings.LastIndexByte(arn, '/'); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package platform wires up the AWS service clients modctl talks to.
package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Clients bundles the AWS APIs behind the deploy and logs commands.
type Clients struct {
	SSM  *ssm.Client
	ECS  *ecs.Client
	ECR  *ecr.Client
	Logs *cloudwatchlogs.Client
}

// New resolves credentials from the default chain (env, shared config,
// task role) and builds the service clients for the given region.
func New(ctx context.Context, region string) (*Clients, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMode(aws.RetryModeAdaptive),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Clients{
		SSM:  ssm.NewFromConfig(cfg),
		ECS:  ecs.NewFromConfig(cfg),
		ECR:  ecr.NewFromConfig(cfg),
		Logs: cloudwatchlogs.NewFromConfig(cfg),
	}, nil
}

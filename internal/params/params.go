// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package params resolves deployment wiring from SSM Parameter Store.
// The CDK stack publishes everything under one prefix (/modernizer by
// default); nothing here is ever written, only read.
package params

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// Parameter keys published by the stack, relative to the prefix.
const (
	KeyFrontendECRURI  = "frontend-ecr-uri"
	KeyBackendECRURI   = "backend-ecr-uri"
	KeyClusterName     = "cluster-name"
	KeyFrontendService = "frontend-service"
	KeyBackendService  = "backend-service"
	KeyBackendURL      = "backend-url"
)

// ErrNotFound marks a missing parameter. Errors wrapping it always
// name the full parameter path.
var ErrNotFound = errors.New("parameter not found")

// API is the slice of the SSM client the store needs.
type API interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, opts ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	GetParameters(ctx context.Context, in *ssm.GetParametersInput, opts ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// Deployment is the wiring the stack published for one environment.
type Deployment struct {
	FrontendECRURI  string
	BackendECRURI   string
	ClusterName     string
	FrontendService string
	BackendService  string
}

// Target returns the ECR repository URI and ECS service name for a
// canonical service name.
func (d Deployment) Target(service string) (ecrURI, ecsService string, err error) {
	switch service {
	case "frontend":
		return d.FrontendECRURI, d.FrontendService, nil
	case "backend":
		return d.BackendECRURI, d.BackendService, nil
	default:
		return "", "", fmt.Errorf("unknown service %q", service)
	}
}

// Store reads parameters under a single prefix and caches what it saw.
// The cache lives for one CLI invocation, so staleness is not a concern.
type Store struct {
	api    API
	prefix string

	mu    sync.Mutex
	cache map[string]string
}

func NewStore(api API, prefix string) *Store {
	return &Store{api: api, prefix: prefix, cache: map[string]string{}}
}

// Name expands a relative key to the full parameter path.
func (s *Store) Name(key string) string {
	return path.Join(s.prefix, key)
}

// Get fetches one parameter value.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	name := s.Name(key)

	s.mu.Lock()
	if v, ok := s.cache[name]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	out, err := s.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var pnf *types.ParameterNotFound
		if errors.As(err, &pnf) {
			return "", fmt.Errorf("ssm parameter %s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("reading ssm parameter %s: %w", name, err)
	}
	// Empty values count as missing.
	if out.Parameter == nil || out.Parameter.Value == nil || *out.Parameter.Value == "" {
		return "", fmt.Errorf("ssm parameter %s: %w", name, ErrNotFound)
	}

	v := *out.Parameter.Value
	s.mu.Lock()
	s.cache[name] = v
	s.mu.Unlock()
	return v, nil
}

// Deployment fetches the five wiring parameters in one batch call.
// Any missing parameter fails the whole resolve, named in full.
func (s *Store) Deployment(ctx context.Context) (Deployment, error) {
	keys := []string{
		KeyFrontendECRURI,
		KeyBackendECRURI,
		KeyClusterName,
		KeyFrontendService,
		KeyBackendService,
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = s.Name(k)
	}

	out, err := s.api.GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return Deployment{}, fmt.Errorf("reading ssm parameters under %s: %w", s.prefix, err)
	}
	if len(out.InvalidParameters) > 0 {
		missing := append([]string(nil), out.InvalidParameters...)
		sort.Strings(missing)
		return Deployment{}, fmt.Errorf("ssm parameters missing (%s): %w (is the stack deployed?)",
			strings.Join(missing, ", "), ErrNotFound)
	}

	values := map[string]string{}
	s.mu.Lock()
	for _, p := range out.Parameters {
		if p.Name == nil || p.Value == nil || *p.Value == "" {
			continue
		}
		values[*p.Name] = *p.Value
		s.cache[*p.Name] = *p.Value
	}
	s.mu.Unlock()

	var empty []string
	for _, n := range names {
		if values[n] == "" {
			empty = append(empty, n)
		}
	}
	if len(empty) > 0 {
		sort.Strings(empty)
		return Deployment{}, fmt.Errorf("ssm parameters missing (%s): %w (is the stack deployed?)",
			strings.Join(empty, ", "), ErrNotFound)
	}

	d := Deployment{
		FrontendECRURI:  values[s.Name(KeyFrontendECRURI)],
		BackendECRURI:   values[s.Name(KeyBackendECRURI)],
		ClusterName:     values[s.Name(KeyClusterName)],
		FrontendService: values[s.Name(KeyFrontendService)],
		BackendService:  values[s.Name(KeyBackendService)],
	}
	return d, nil
}

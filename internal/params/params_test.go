// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package params

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	values  map[string]string
	invalid []string
	calls   int
}

func (f *fakeSSM) GetParameter(ctx context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	v, ok := f.values[*in.Name]
	if !ok {
		return nil, &types.ParameterNotFound{}
	}
	return &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Name: in.Name, Value: aws.String(v)},
	}, nil
}

func (f *fakeSSM) GetParameters(ctx context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.calls++
	out := &ssm.GetParametersOutput{InvalidParameters: f.invalid}
	for _, name := range in.Names {
		if v, ok := f.values[name]; ok {
			out.Parameters = append(out.Parameters, types.Parameter{
				Name:  aws.String(name),
				Value: aws.String(v),
			})
		}
	}
	return out, nil
}

func wired() map[string]string {
	return map[string]string{
		"/modernizer/frontend-ecr-uri":  "123.dkr.ecr.us-east-1.amazonaws.com/modernizer-frontend",
		"/modernizer/backend-ecr-uri":   "123.dkr.ecr.us-east-1.amazonaws.com/modernizer-backend",
		"/modernizer/cluster-name":      "modernizer",
		"/modernizer/frontend-service":  "modernizer-frontend",
		"/modernizer/backend-service":   "modernizer-backend",
		"/modernizer/backend-url":       "http://lb.example.com",
	}
}

func TestGetCachesValues(t *testing.T) {
	f := &fakeSSM{values: wired()}
	s := NewStore(f, "/modernizer")

	v, err := s.Get(context.Background(), KeyClusterName)
	require.NoError(t, err)
	assert.Equal(t, "modernizer", v)

	_, err = s.Get(context.Background(), KeyClusterName)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestGetMissingNamesFullPath(t *testing.T) {
	f := &fakeSSM{values: map[string]string{}}
	s := NewStore(f, "/modernizer")

	_, err := s.Get(context.Background(), KeyClusterName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "/modernizer/cluster-name")
}

func TestDeploymentResolvesBatch(t *testing.T) {
	f := &fakeSSM{values: wired()}
	s := NewStore(f, "/modernizer")

	d, err := s.Deployment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "modernizer", d.ClusterName)
	assert.Equal(t, "modernizer-frontend", d.FrontendService)
	assert.Equal(t, "123.dkr.ecr.us-east-1.amazonaws.com/modernizer-backend", d.BackendECRURI)
	assert.Equal(t, 1, f.calls)

	// batch also primes the single-value cache
	_, err = s.Get(context.Background(), KeyClusterName)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestGetTreatsEmptyAsMissing(t *testing.T) {
	f := &fakeSSM{values: map[string]string{"/modernizer/backend-url": ""}}
	s := NewStore(f, "/modernizer")

	_, err := s.Get(context.Background(), KeyBackendURL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeploymentTreatsEmptyAsMissing(t *testing.T) {
	vals := wired()
	vals["/modernizer/cluster-name"] = ""
	f := &fakeSSM{values: vals}
	s := NewStore(f, "/modernizer")

	_, err := s.Deployment(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "/modernizer/cluster-name")
}

func TestDeploymentFailsOnMissing(t *testing.T) {
	f := &fakeSSM{
		values:  wired(),
		invalid: []string{"/modernizer/cluster-name", "/modernizer/backend-service"},
	}
	s := NewStore(f, "/modernizer")

	_, err := s.Deployment(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "/modernizer/backend-service, /modernizer/cluster-name")
	assert.Contains(t, err.Error(), "is the stack deployed?")
}

func TestTarget(t *testing.T) {
	d := Deployment{
		FrontendECRURI:  "reg/front",
		BackendECRURI:   "reg/back",
		FrontendService: "svc-front",
		BackendService:  "svc-back",
	}

	uri, svc, err := d.Target("backend")
	require.NoError(t, err)
	assert.Equal(t, "reg/back", uri)
	assert.Equal(t, "svc-back", svc)

	_, _, err = d.Target("database")
	require.Error(t, err)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package registry

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeECR struct {
	token string
	pages [][]types.ImageDetail
	page  int
}

func (f *fakeECR) GetAuthorizationToken(ctx context.Context, in *ecr.GetAuthorizationTokenInput, _ ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error) {
	return &ecr.GetAuthorizationTokenOutput{
		AuthorizationData: []types.AuthorizationData{{
			AuthorizationToken: aws.String(f.token),
			ProxyEndpoint:      aws.String("https://123.dkr.ecr.us-east-1.amazonaws.com"),
		}},
	}, nil
}

func (f *fakeECR) DescribeImages(ctx context.Context, in *ecr.DescribeImagesInput, _ ...func(*ecr.Options)) (*ecr.DescribeImagesOutput, error) {
	out := &ecr.DescribeImagesOutput{ImageDetails: f.pages[f.page]}
	if f.page < len(f.pages)-1 {
		out.NextToken = aws.String("more")
	}
	f.page++
	return out, nil
}

func TestAuthDecodesToken(t *testing.T) {
	f := &fakeECR{token: base64.StdEncoding.EncodeToString([]byte("AWS:hunter2"))}

	creds, err := Auth(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "AWS", creds.Username)
	assert.Equal(t, "hunter2", creds.Password)
	assert.Equal(t, "123.dkr.ecr.us-east-1.amazonaws.com", creds.Host)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	f := &fakeECR{token: base64.StdEncoding.EncodeToString([]byte("no-separator"))}

	_, err := Auth(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestImagesPaginatesAndSortsNewestFirst(t *testing.T) {
	old := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	mid := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)
	newest := time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)

	f := &fakeECR{pages: [][]types.ImageDetail{
		{
			{ImageDigest: aws.String("sha256:aaa"), ImagePushedAt: &old, ImageTags: []string{"2026-01-02T10_00_00Z"}},
			{ImageDigest: aws.String("sha256:ccc"), ImagePushedAt: &newest, ImageTags: []string{"latest", "2026-01-04T10_00_00Z"}},
		},
		{
			{ImageDigest: aws.String("sha256:bbb"), ImagePushedAt: &mid, ImageTags: []string{"2026-01-03T10_00_00Z"}, ImageSizeInBytes: aws.Int64(123456)},
		},
	}}

	images, err := Images(context.Background(), f, "modernizer-frontend")
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "sha256:ccc", images[0].Digest)
	assert.Equal(t, "sha256:bbb", images[1].Digest)
	assert.Equal(t, "sha256:aaa", images[2].Digest)
	assert.Equal(t, int64(123456), images[1].SizeBytes)
}

func TestTimestampTags(t *testing.T) {
	images := []Image{
		{Tags: []string{"latest", "2026-01-04T10_00_00Z"}},
		{Tags: []string{"2026-01-02T10_00_00Z"}},
		{Tags: []string{"v1.2.3"}},
		{Tags: []string{"2026-01-03T10_00_00Z"}},
	}

	got := TimestampTags(images)
	assert.Equal(t, []string{
		"2026-01-04T10_00_00Z",
		"2026-01-03T10_00_00Z",
		"2026-01-02T10_00_00Z",
	}, got)
}

func TestTagHelpers(t *testing.T) {
	ts := time.Date(2026, 8, 23, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "2026-08-23T14_05_09Z", TimestampTag(ts))
	assert.True(t, IsTimestampTag("2026-08-23T14_05_09Z"))
	assert.False(t, IsTimestampTag("latest"))
	assert.False(t, IsTimestampTag("2026-08-23T14:05:09Z"))

	uri := "123.dkr.ecr.us-east-1.amazonaws.com/modernizer-frontend"
	assert.Equal(t, "123.dkr.ecr.us-east-1.amazonaws.com", Host(uri))
	assert.Equal(t, "modernizer-frontend", RepositoryName(uri))
}

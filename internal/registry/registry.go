// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package registry handles ECR: short-lived docker credentials, image
// listings, and the tag scheme pushed images follow.
package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// TagTimeFormat is the timestamp tag layout. Colons are not legal in
// docker tags, so the time portion uses underscores.
const TagTimeFormat = "2006-01-02T15_04_05Z"

var timestampTagRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}_\d{2}_\d{2}Z$`)

// TimestampTag renders t as an image tag, always in UTC.
func TimestampTag(t time.Time) string {
	return t.UTC().Format(TagTimeFormat)
}

// IsTimestampTag reports whether s looks like a tag minted by
// TimestampTag.
func IsTimestampTag(s string) bool {
	return timestampTagRe.MatchString(s)
}

// Host returns the registry host of a repository URI
// (123.dkr.ecr.us-east-1.amazonaws.com/modernizer-frontend).
func Host(uri string) string {
	if i := strings.IndexByte(uri, '/'); i >= 0 {
		return uri[:i]
	}
	return uri
}

// RepositoryName returns the repository part of a repository URI.
func RepositoryName(uri string) string {
	if i := strings.IndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// API is the slice of the ECR client this package needs.
type API interface {
	GetAuthorizationToken(ctx context.Context, in *ecr.GetAuthorizationTokenInput, opts ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
	ecr.DescribeImagesAPIClient
}

// Credentials is a decoded docker login for one registry. They expire
// after twelve hours; modctl fetches fresh ones every run.
type Credentials struct {
	Username string
	Password string
	Host     string
}

// Auth fetches and decodes a registry credential. The token comes back
// base64 encoded as user:password.
func Auth(ctx context.Context, api API) (Credentials, error) {
	out, err := api.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return Credentials{}, fmt.Errorf("fetching ECR authorization token: %w", err)
	}
	if len(out.AuthorizationData) == 0 || out.AuthorizationData[0].AuthorizationToken == nil {
		return Credentials{}, fmt.Errorf("ECR returned no authorization data")
	}
	ad := out.AuthorizationData[0]

	raw, err := base64.StdEncoding.DecodeString(*ad.AuthorizationToken)
	if err != nil {
		return Credentials{}, fmt.Errorf("decoding ECR authorization token: %w", err)
	}
	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Credentials{}, fmt.Errorf("malformed ECR authorization token")
	}

	host := ""
	if ad.ProxyEndpoint != nil {
		host = strings.TrimPrefix(*ad.ProxyEndpoint, "https://")
	}
	return Credentials{Username: user, Password: pass, Host: host}, nil
}

// Image is one pushed image, possibly carrying several tags.
type Image struct {
	Digest    string
	Tags      []string
	PushedAt  time.Time
	SizeBytes int64
}

// Images lists every image in a repository, newest first.
func Images(ctx context.Context, api API, repository string) ([]Image, error) {
	p := ecr.NewDescribeImagesPaginator(api, &ecr.DescribeImagesInput{
		RepositoryName: &repository,
	})

	var images []Image
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing images in %s: %w", repository, err)
		}
		for _, d := range page.ImageDetails {
			img := Image{Tags: d.ImageTags}
			if d.ImageDigest != nil {
				img.Digest = *d.ImageDigest
			}
			if d.ImagePushedAt != nil {
				img.PushedAt = *d.ImagePushedAt
			}
			if d.ImageSizeInBytes != nil {
				img.SizeBytes = *d.ImageSizeInBytes
			}
			images = append(images, img)
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].PushedAt.After(images[j].PushedAt)
	})
	return images, nil
}

// TimestampTags extracts the timestamp tags across images, newest
// first. Useful for picking a rollback target.
func TimestampTags(images []Image) []string {
	var tags []string
	for _, img := range images {
		for _, t := range img.Tags {
			if IsTimestampTag(t) {
				tags = append(tags, t)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(tags)))
	return tags
}

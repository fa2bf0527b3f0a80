// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

// Package config loads modctl settings from defaults, an optional
// modernizer.yaml at the project root, and environment overrides,
// in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the optional project config file looked up at the root.
const FileName = "modernizer.yaml"

// Canonical service names. Every deploy-facing command accepts these
// (plus "all", which fans out to both in this order).
const (
	ServiceFrontend = "frontend"
	ServiceBackend  = "backend"
)

// Service describes one deployable service of the stack.
type Service struct {
	// Dir is the docker build context, relative to the project root.
	Dir string `yaml:"dir" validate:"required"`
	// Port the container listens on.
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
	// HealthPath is probed after deploys settle.
	HealthPath string `yaml:"health_path" validate:"required,startswith=/"`
	// LogGroup is the CloudWatch Logs group the service writes to.
	LogGroup string `yaml:"log_group" validate:"required"`
}

// Config is the resolved modctl configuration.
type Config struct {
	Region    string `yaml:"region" validate:"required"`
	SSMPrefix string `yaml:"ssm_prefix" validate:"required,startswith=/"`

	// Platform passed to docker build. The cluster runs on Fargate
	// x86, so cross-builds from arm laptops need this pinned.
	Platform string `yaml:"platform" validate:"required"`

	DockerBin string `yaml:"docker_bin" validate:"required"`
	CDKBin    string `yaml:"cdk_bin" validate:"required"`
	// CDKDir is where the CDK app lives, relative to the project root.
	CDKDir string `yaml:"cdk_dir" validate:"required"`

	DefaultModelID string `yaml:"default_model_id" validate:"required"`
	BackendURL     string `yaml:"backend_url" validate:"omitempty,url"`

	// HistoryDB is the sqlite file holding past analysis runs.
	HistoryDB string `yaml:"history_db" validate:"required"`

	Frontend Service `yaml:"frontend"`
	Backend  Service `yaml:"backend"`
}

// Default returns the configuration matching the stock modernizer stack.
func Default() *Config {
	return &Config{
		Region:         "us-east-1",
		SSMPrefix:      "/modernizer",
		Platform:       "linux/amd64",
		DockerBin:      "docker",
		CDKBin:         "cdk",
		CDKDir:         "cdk",
		DefaultModelID: "anthropic.claude-3-5-sonnet-20241022-v2:0",
		HistoryDB:      filepath.Join(homeDir(), ".modernizer", "history.db"),
		Frontend: Service{
			Dir:        "frontend",
			Port:       8501,
			HealthPath: "/_stcore/health",
			LogGroup:   "/ecs/modernizer-frontend",
		},
		Backend: Service{
			Dir:        "backend",
			Port:       8000,
			HealthPath: "/health",
			LogGroup:   "/ecs/modernizer-backend",
		},
	}
}

// Load builds the effective config for a project root. A missing
// modernizer.yaml is fine; a malformed one is an error.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path) //nolint:gosec // path rooted at the project
	switch {
	case err == nil:
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment overrides. AWS_REGION, DEFAULT_MODEL_ID and BACKEND_URL
// match the names the deployed services read; the MODERNIZER_* ones
// exist for the CLI alone.
func (c *Config) applyEnv() {
	setIfPresent(&c.Region, "AWS_REGION")
	setIfPresent(&c.DefaultModelID, "DEFAULT_MODEL_ID")
	setIfPresent(&c.BackendURL, "BACKEND_URL")
	setIfPresent(&c.SSMPrefix, "MODERNIZER_SSM_PREFIX")
	setIfPresent(&c.Platform, "MODERNIZER_PLATFORM")
	setIfPresent(&c.DockerBin, "MODERNIZER_DOCKER_BIN")
	setIfPresent(&c.CDKBin, "MODERNIZER_CDK_BIN")
	setIfPresent(&c.HistoryDB, "MODERNIZER_HISTORY_DB")
}

// Validate checks the config and reports every violated field at once.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Service returns the named service definition.
func (c *Config) Service(name string) (Service, error) {
	switch name {
	case ServiceFrontend:
		return c.Frontend, nil
	case ServiceBackend:
		return c.Backend, nil
	default:
		return Service{}, fmt.Errorf("unknown service %q (expected %s or %s)", name, ServiceFrontend, ServiceBackend)
	}
}

// ServiceNames returns the canonical deploy order.
func (c *Config) ServiceNames() []string {
	return []string{ServiceFrontend, ServiceBackend}
}

func setIfPresent(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

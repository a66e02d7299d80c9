// Package parser provides host configuration parsing.
package parser

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hiveml/hivehost/domain/entities"
	"github.com/hiveml/hivehost/domain/ports"
)

// YamlConfigParser implements ports.ConfigParser for YAML.
type YamlConfigParser struct {
	validate *validator.Validate
}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{validate: validator.New()}
}

// Parse unmarshals YAML bytes over the defaults and validates the result.
func (p *YamlConfigParser) Parse(data []byte) (*entities.HostConfig, error) {
	cfg := entities.DefaultHostConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse host config: %w", err)
	}
	if err := p.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid host config: %w", err)
	}
	return &cfg, nil
}

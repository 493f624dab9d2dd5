package store

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const recordHeader = "# Managed by envmatch. Edit with 'envmatch set' or 'envmatch tui'.\n"

func encodeRecord(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(recordHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalYAML writes every key as a double-quoted string so that no key,
// '<<' included, is read back as YAML syntax. Keys that are not valid UTF-8
// keep the encoder's !!binary form.
func (v Variables) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range v.Keys() {
		var key, value yaml.Node
		if err := key.Encode(k); err != nil {
			return nil, err
		}
		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!str" {
			key.Tag = "!!str"
			key.Style = yaml.DoubleQuotedStyle
		}
		if err := value.Encode(v[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

// decodeGlobalConfig parses a config record. The named environment must be
// present and well-formed.
func decodeGlobalConfig(data []byte) (*GlobalConfig, error) {
	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.CurrentEnvironment == "" {
		return nil, fmt.Errorf("current_environment is missing")
	}
	if err := ValidateEnvironmentName(cfg.CurrentEnvironment); err != nil {
		return nil, fmt.Errorf("current_environment %q is not a valid environment name", cfg.CurrentEnvironment)
	}
	return &cfg, nil
}

// decodeEnvironment parses an environment record. An empty document is an
// environment with no variables.
func decodeEnvironment(data []byte) (*EnvironmentVariables, error) {
	var env EnvironmentVariables
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Variables == nil {
		env.Variables = make(Variables)
	}
	return &env, nil
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/webuild/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML configuration
// file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys are matched against flag names case-insensitively, with underscores
// read as hyphens. Nested mappings are joined to their parent key with a
// hyphen, so both of the following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Scalars are passed to kong as strings and sequences as lists. A file that
// cannot be parsed is ignored. Command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring configuration file", slog.Any("error", err))
		}

		return config{}, nil
	}

	cfg := make(config)
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	value, ok := c[configKey(flag.Name)]
	if !ok {
		return nil, nil
	}

	return value, nil
}

// configKey normalizes a flag name or configuration key.
func configKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}

// flatten adds the entries of m to c, joining nested keys with a hyphen.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = configKey(key)
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)

		case []any:
			list := make([]any, len(v))
			for i, e := range v {
				list[i] = configValue(e)
			}

			c[key] = list

		case nil:

		default:
			c[key] = configValue(v)
		}
	}
}

// configValue converts a YAML scalar to a value kong can decode. Booleans
// are kept; everything else is formatted as a string.
func configValue(v any) any {
	switch v := v.(type) {
	case bool, string:
		return v

	default:
		return fmt.Sprint(v)
	}
}

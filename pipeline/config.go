package pipeline

import (
	"errors"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/resttools/resterrors"
)

// Config is the YAML shape of a whole pipeline: its resources and their
// operations. It exists for deployments that declare their surface in a file;
// programmatic construction through Pipeline.AddResource is equivalent.
type Config struct {
	Resources []ResourceConfig `yaml:"resources"`
}

// LoadConfig decodes a pipeline configuration from YAML bytes.
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		var cfgErr *resterrors.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, cfgErr
		}
		return nil, &resterrors.ConfigError{
			Option:  "config",
			Message: "invalid YAML",
			Cause:   err,
		}
	}
	if len(cfg.Resources) == 0 {
		return nil, &resterrors.ConfigError{
			Option:  "config",
			Message: "configuration declares no resources",
		}
	}
	return &cfg, nil
}

// LoadConfigFile reads and decodes a pipeline configuration file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &resterrors.ConfigError{
			Option:  "config",
			Value:   path,
			Message: "cannot read configuration file",
			Cause:   err,
		}
	}
	return LoadConfig(data)
}

package config

import (
	"errors"
	"fmt"

	"binomial-pricer/option"
)

// Validate ensures required fields are present and every section builds.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if len(cfg.Contracts) == 0 {
		return errors.New("contracts config is required")
	}
	if cfg.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if cfg.Stream.Addr != "" && (cfg.Stream.Path == "" || cfg.Stream.Path[0] != '/') {
		return fmt.Errorf("stream.path must start with / (got %q)", cfg.Stream.Path)
	}
	seen := make(map[string]struct{}, len(cfg.Contracts))
	for i, cc := range cfg.Contracts {
		if cc.Name == "" {
			return fmt.Errorf("contracts[%d].name is required", i)
		}
		if _, dup := seen[cc.Name]; dup {
			return fmt.Errorf("contracts[%d].name %q is duplicated", i, cc.Name)
		}
		seen[cc.Name] = struct{}{}
		if cc.Expiry < 0 {
			return fmt.Errorf("contracts[%d].expiry must be >= 0", i)
		}
		if option.IsSpreadKind(cc.Kind) && cc.Lower >= cc.Upper {
			return fmt.Errorf("contracts[%d].upper must be > lower", i)
		}
	}
	return ValidateParams(cfg)
}

package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

// DomainOverride is one entry under "domains" in the domain YAML file. Zero
// values leave the built-in profile untouched.
type DomainOverride struct {
	Thresholds     intake.Thresholds `mapstructure:"thresholds"`
	MinConfidence  float64           `mapstructure:"min_confidence"`
	RequiredFields []string          `mapstructure:"required_fields"`
	OptionalFields []string          `mapstructure:"optional_fields"`
	Prompts        map[string]string `mapstructure:"prompts"`
}

// LoadDomainProfiles reads overrides from path. A missing file yields no
// overrides.
func LoadDomainProfiles(path string) (map[string]DomainOverride, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read domain config %s: %w", path, err)
	}

	var overrides map[string]DomainOverride
	if err := v.UnmarshalKey("domains", &overrides); err != nil {
		return nil, fmt.Errorf("decode domain config %s: %w", path, err)
	}
	return overrides, nil
}

// ApplyDomainOverrides tunes registry profiles in place. Unknown domain keys
// are an error so typos in the file do not go unnoticed.
func ApplyDomainOverrides(registry *intake.Registry, overrides map[string]DomainOverride) error {
	for key, o := range overrides {
		if !registry.Has(key) {
			return fmt.Errorf("domain config: unknown domain %q", key)
		}
		o := o
		err := registry.Tune(key, func(p *intake.Profile) {
			if o.Thresholds.NeedsMoreDetail > 0 {
				p.Thresholds.NeedsMoreDetail = o.Thresholds.NeedsMoreDetail
			}
			if o.Thresholds.Ready > 0 {
				p.Thresholds.Ready = o.Thresholds.Ready
				if o.Thresholds.Action == 0 {
					p.Thresholds.Action = o.Thresholds.Ready
				}
			}
			if o.Thresholds.Action > 0 {
				p.Thresholds.Action = o.Thresholds.Action
			}
			if o.MinConfidence > 0 {
				p.MinConfidence = o.MinConfidence
			}
			if len(o.RequiredFields) > 0 {
				p.RequiredFields = append([]string(nil), o.RequiredFields...)
			}
			if len(o.OptionalFields) > 0 {
				p.OptionalFields = append([]string(nil), o.OptionalFields...)
			}
			for field, prompt := range o.Prompts {
				if p.Prompts == nil {
					p.Prompts = map[string]string{}
				}
				p.Prompts[field] = prompt
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

package gate

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Quotas maps feature names to their daily usage limit for metered users.
type Quotas map[string]int

// ParseQuotas reads a flat feature→limit YAML mapping:
//
//	analysis: 3
//	export: 1
func ParseQuotas(data []byte) (Quotas, error) {
	var quotas Quotas
	if err := yaml.Unmarshal(data, &quotas); err != nil {
		return nil, errors.Join(ErrInvalidQuotasConfig, err)
	}
	for feature, limit := range quotas {
		if limit < 0 {
			return nil, errors.Join(ErrInvalidQuotasConfig,
				errors.New("negative limit for feature "+feature))
		}
	}
	return quotas, nil
}

// LoadQuotasFile reads quotas from a YAML file on disk.
func LoadQuotasFile(path string) (Quotas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidQuotasConfig, err)
	}
	return ParseQuotas(data)
}

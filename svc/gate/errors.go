package gate

import "errors"

var (
	// ErrInvalidQuotasConfig indicates the quotas file could not be read or parsed.
	ErrInvalidQuotasConfig = errors.New("gate.invalid_quotas_config")
)

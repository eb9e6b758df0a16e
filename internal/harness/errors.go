package harness

// Error codes for the validation harness. Pipeline-stage codes travel back
// to the runner as diagnostic text; the LISTING and REWRITE codes mark
// harness misconfiguration and abort the whole run.
const (
	// Pipeline stage errors (2000-2099)
	ErrCodeNormalization  = "CONF_2001"
	ErrCodeValidation     = "CONF_2002"
	ErrCodeInitialization = "CONF_2003"

	// Harness-fatal errors (2100-2199)
	ErrCodeDirectoryListing = "CONF_2101"
	ErrCodeConfigRewrite    = "CONF_2102"

	// Per-model comparison errors (2200-2299)
	ErrCodeGoldenMismatch = "CONF_2201"
)

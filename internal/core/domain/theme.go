package domain

// Base token sets the presets resolve to. Custom tokens from the config
// win over the preset values.

var lightTokens = map[string]string{
	"header_bg":   "#F2F2F2",
	"header_text": "#222222",
	"cell_bg":     "#FFFFFF",
	"cell_text":   "#222222",
	"border":      "#DDDDDD",
	"current_bg":  "#FFE696",
}

var darkTokens = map[string]string{
	"header_bg":   "#2C2C2C",
	"header_text": "#EAEAEA",
	"cell_bg":     "#1E1E1E",
	"cell_text":   "#EAEAEA",
	"border":      "#3A3A3A",
	"current_bg":  "#6B5E2E",
}

// ComputeThemeTokens resolves the effective token set for the config's
// preset, merged with any per-config overrides.
func ComputeThemeTokens(cfg *AppConfig) map[string]string {
	base := lightTokens
	if cfg.Theme.Preset == "dark" {
		base = darkTokens
	}

	merged := make(map[string]string, len(base)+len(cfg.Theme.Tokens))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range cfg.Theme.Tokens {
		merged[k] = v
	}
	return merged
}

package morphology

import "strings"

// Normalize canonicalizes preset names and common aliases. Unknown names come
// back normalized but otherwise untouched, so registry errors keep the
// caller's spelling.
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return ""
	}
	if canonical, ok := canonicalPresetName(normalized); ok {
		return canonical
	}
	return normalized
}

func canonicalPresetName(normalized string) (string, bool) {
	for _, candidate := range aliasCandidates(normalized) {
		if canonical, ok := presetAlias(candidate); ok {
			return canonical, true
		}
	}
	return "", false
}

// aliasCandidates widens the lookup to the name without a morphology prefix.
// Version markers are never stripped: "xor-v2" must not resolve to "xor-v1".
func aliasCandidates(normalized string) []string {
	candidates := []string{normalized}

	stripped := normalized
	for _, prefix := range []string{"morphology-", "morph-"} {
		if trimmed := strings.Trim(strings.TrimPrefix(stripped, prefix), "-"); trimmed != stripped {
			stripped = trimmed
			break
		}
	}
	if stripped != "" && stripped != normalized {
		candidates = append(candidates, stripped)
	}
	return candidates
}

func presetAlias(alias string) (string, bool) {
	switch alias {
	case "xor":
		return "xor-v1", true
	case "cart-pole-lite", "cart-pole":
		return "cart-pole-lite-v1", true
	case "sine-fit", "sine":
		return "sine-fit-v1", true
	case "parity3", "parity-3", "parity":
		return "parity3-v1", true
	}

	compact := strings.ReplaceAll(alias, "-", "")
	switch compact {
	case "cartpolelite", "cartpole":
		return "cart-pole-lite-v1", true
	case "sinefit":
		return "sine-fit-v1", true
	case "parity3":
		return "parity3-v1", true
	default:
		return "", false
	}
}

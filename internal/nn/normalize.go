package nn

import "strings"

// NormalizeActivationName canonicalizes activation names and common aliases.
func NormalizeActivationName(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.Trim(normalized, "_")
	if normalized == "" {
		return ""
	}
	if canonical, ok := canonicalActivationName(normalized); ok {
		return canonical
	}
	return normalized
}

func canonicalActivationName(alias string) (string, bool) {
	switch alias {
	case "linear", "identity", "lin":
		return "linear", true
	case "sigmoid", "logistic", "sigm":
		return "sigmoid", true
	case "steepened_sigmoid", "sigmoid_steepened":
		return "steepened_sigmoid", true
	case "tanh", "hyperbolic_tangent":
		return "tanh", true
	case "relu", "rectifier":
		return "relu", true
	case "leaky_relu", "lrelu":
		return "leaky_relu", true
	case "sin", "sine":
		return "sin", true
	case "gauss", "gaussian":
		return "gauss", true
	case "abs", "absolute":
		return "abs", true
	case "step", "threshold":
		return "step", true
	case "clamped", "clip":
		return "clamped", true
	default:
		return "", false
	}
}

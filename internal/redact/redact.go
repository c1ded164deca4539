package redact

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

type rule struct {
	pattern *regexp.Regexp
	replace string
}

var sensitivePatterns = []rule{
	// Hugging Face
	{regexp.MustCompile(`hf_[A-Za-z0-9]{30,}`), redactedPlaceholder},

	// Google / Gemini API keys
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`), redactedPlaceholder},

	// Generic API keys
	{regexp.MustCompile(`(?i)(api_key|apikey|api-key|hf_token|access_token|auth_token|secret_key)\s*[=:]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`), redactedPlaceholder},

	// Keys passed as query parameters
	{regexp.MustCompile(`(?i)([?&]key=)[A-Za-z0-9_-]{16,}`), "${1}" + redactedPlaceholder},

	// Bearer tokens
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_.-]{20,}`), redactedPlaceholder},

	// Basic auth in URLs
	{regexp.MustCompile(`(https?://)[^:/\s]+:[^@\s]+@`), "${1}" + redactedPlaceholder + "@"},

	// Volume GUIDs and serial numbers identify a physical device
	{regexp.MustCompile(`(?i)(Volume\{)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(\})`), "${1}[GUID]${2}"},
	{regexp.MustCompile(`(?i)(serial(_?number)?"?\s*[=:]\s*"?)[A-Za-z0-9_.-]{4,}`), "${1}" + redactedPlaceholder},

	// User names inside home directories
	{regexp.MustCompile(`(/home/|/Users/)[^/\s'"]+`), "${1}[USER]"},
	{regexp.MustCompile(`(?i)([A-Z]:\\Users\\)[^\\\s'"]+`), "${1}[USER]"},
}

// Redact masks credentials and user names in free text before it is
// written to a log.
func Redact(input string) string {
	result := input
	for _, r := range sensitivePatterns {
		result = r.pattern.ReplaceAllString(result, r.replace)
	}
	return result
}

// RedactEnvVars masks the value of every NAME=value pair whose name looks
// like a credential.
func RedactEnvVars(envVars []string) []string {
	sensitiveEnvNames := []string{
		"HF_TOKEN",
		"HUGGINGFACEHUB_API_TOKEN",
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
		"API_KEY",
		"TOKEN",
		"SECRET",
		"PASSWORD",
	}

	result := make([]string, 0, len(envVars))
	for _, env := range envVars {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			result = append(result, env)
			continue
		}

		name := strings.ToUpper(parts[0])
		isSensitive := false
		for _, sensitive := range sensitiveEnvNames {
			if strings.Contains(name, sensitive) {
				isSensitive = true
				break
			}
		}

		if isSensitive && parts[1] != "" {
			result = append(result, parts[0]+"="+redactedPlaceholder)
		} else {
			result = append(result, env)
		}
	}
	return result
}

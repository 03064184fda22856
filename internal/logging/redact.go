package logging

import "strings"

// secretKeyPatterns contains substrings that indicate a log attribute likely
// carries credential material from a kubeconfig. Matched case-insensitively.
var secretKeyPatterns = []string{
	"token",
	"password",
	"client-key-data",
	"client-certificate-data",
	"certificate-authority-data",
	"secret",
	"auth",
}

// ShouldMask returns true if the attribute key suggests a sensitive value.
func ShouldMask(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(v string) string {
	if len(v) <= 4 {
		return "********"
	}
	return "****" + v[len(v)-4:]
}

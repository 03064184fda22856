package codec

import "strings"

// booleanFieldKeys are keys whose values must serialize as native YAML
// booleans whenever the stored value is boolean-like. Numeric 0/1 in these
// positions is rejected by downstream consumers.
var booleanFieldKeys = map[string]bool{
	"provideClusterInfo":       true,
	"insecure-skip-tls-verify": true,
	"disable-compression":      true,
}

// parseBoolLike interprets the accepted boolean spellings: the literal
// booleans plus "1"/"0", "yes"/"no", "on"/"off", case-insensitively.
func parseBoolLike(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

package lib

import "strings"

// ParseHeadersString parses a string containing key-value pairs separated by
// commas into a map of header names to values. Later occurrences of a key
// overwrite earlier ones.
func ParseHeadersString(headersStr string) map[string]string {
	headers := make(map[string]string)
	pairs := strings.Split(headersStr, ",")
	for _, pair := range pairs {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			key := strings.TrimSpace(kv[0])
			value := strings.TrimSpace(kv[1])
			if key != "" {
				headers[key] = value
			}
		}
	}
	return headers
}

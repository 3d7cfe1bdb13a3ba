package nut

import (
	"strings"
)

// ParseBlock parses a upsc-style text block into a variable map. Each line
// is "key: value" or "key=value"; lines with neither separator (e.g. the
// "Init SSL without certificate database" notice upsc prints on stderr
// leakage) are skipped. Later duplicates win.
func ParseBlock(text string) map[string]string {
	vars := make(map[string]string)

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := splitLine(line)
		if !ok {
			continue
		}
		vars[key] = value
	}

	return vars
}

func splitLine(line string) (key, value string, ok bool) {
	sep := strings.IndexByte(line, ':')
	if sep < 0 {
		sep = strings.IndexByte(line, '=')
	}
	if sep < 0 {
		return "", "", false
	}

	key = strings.TrimSpace(line[:sep])
	value = strings.TrimSpace(line[sep+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

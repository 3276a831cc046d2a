package util

import "strings"

func StringPtr(v string) *string { return &v }

func DerefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

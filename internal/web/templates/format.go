// Package templates holds the HTML partials swapped in by HTMX.
package templates

import (
	"strconv"
	"strings"
)

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

package httpstream

import (
	"runtime"
	"strings"
)

// Version of the library, reported in the default User-Agent header.
const Version = "1.3.0"

func userAgent(product string) string {
	var parts []string
	if product != "" {
		parts = append(parts, product)
	}
	parts = append(parts,
		"HTTPStream/"+Version,
		"Go/"+strings.TrimPrefix(runtime.Version(), "go"),
		"("+runtime.GOOS+")",
	)
	return strings.Join(parts, " ")
}

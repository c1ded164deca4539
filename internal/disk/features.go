package disk

import (
	"fmt"
	"strings"
)

const bytesPerGB = 1 << 30

// Extract derives the scorer's features. Missing fields degrade to
// defaults (size 0, filesystem UNKNOWN). The only failure is a size value
// that is present but not a usable number.
func Extract(info Info, oracle MediaTypeOracle) (Features, error) {
	if oracle == nil {
		oracle = DescriptionOracle{}
	}

	size, err := info.Size.Bytes()
	if err != nil {
		return Features{}, fmt.Errorf("extract features: %w", err)
	}

	fs := strings.ToUpper(strings.TrimSpace(string(info.FileSystem)))
	if fs == "" {
		fs = "UNKNOWN"
	}

	return Features{
		IsSSD:      oracle.IsSSD(info),
		SizeGB:     size / bytesPerGB,
		FileSystem: fs,
	}, nil
}

package disk

import (
	"os"
	"path/filepath"
	"strings"
)

// MediaTypeOracle reports whether a disk is solid-state. Implementations
// are best effort; callers must not treat the answer as authoritative.
type MediaTypeOracle interface {
	IsSSD(info Info) bool
}

// OracleFunc adapts a plain function to MediaTypeOracle.
type OracleFunc func(Info) bool

func (f OracleFunc) IsSSD(info Info) bool { return f(info) }

// DescriptionOracle looks for "SSD" in the free-text description the host
// collected.
type DescriptionOracle struct{}

func (DescriptionOracle) IsSSD(info Info) bool {
	return strings.Contains(string(info.Description), "SSD")
}

// SysfsOracle reads /sys/block/<dev>/queue/rotational for the device named
// by Info.DeviceID (e.g. "/dev/nvme0n1" or "sda"). When the device cannot be
// resolved it defers to Fallback.
type SysfsOracle struct {
	// Root is the sysfs mount point; empty means "/sys".
	Root     string
	Fallback MediaTypeOracle
}

func (o SysfsOracle) IsSSD(info Info) bool {
	if rotational, ok := o.rotational(string(info.DeviceID)); ok {
		return !rotational
	}
	if o.Fallback != nil {
		return o.Fallback.IsSSD(info)
	}
	return false
}

func (o SysfsOracle) rotational(deviceID string) (bool, bool) {
	name := blockDeviceName(deviceID)
	if name == "" {
		return false, false
	}
	root := o.Root
	if root == "" {
		root = "/sys"
	}
	data, err := os.ReadFile(filepath.Join(root, "block", name, "queue", "rotational"))
	if err != nil {
		return false, false
	}
	switch strings.TrimSpace(string(data)) {
	case "0":
		return false, true
	case "1":
		return true, true
	default:
		return false, false
	}
}

// blockDeviceName strips /dev/ and partition suffixes so that partitions
// resolve to their parent disk: sda1 -> sda, nvme0n1p2 -> nvme0n1.
func blockDeviceName(deviceID string) string {
	name := filepath.Base(strings.TrimSpace(deviceID))
	if name == "" || name == "." || name == "/" || strings.ContainsAny(name, `\:`) {
		return ""
	}
	if strings.HasPrefix(name, "nvme") || strings.HasPrefix(name, "mmcblk") {
		if i := strings.LastIndex(name, "p"); i > 4 && isDigits(name[i+1:]) {
			return name[:i]
		}
		return name
	}
	for _, prefix := range []string{"sd", "vd", "xvd", "hd"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimRight(name, "0123456789")
		}
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Package disk holds the input records the host hands to the advisor and
// the normalized features derived from them.
//
// The records are collected elsewhere (WMI, lsblk, diskutil) and arrive as
// JSON. Field names follow the host's wire format, so decoding is lenient:
// a caption sent as a number or a boolean flag sent as a string is still
// accepted. Only a top-level value that is not a JSON object is rejected.
package disk

// Info describes the storage volume being analyzed.
type Info struct {
	Caption     Text `json:"caption"`
	Size        Size `json:"size"`
	DriveType   Text `json:"driveType"`
	FileSystem  Text `json:"fileSystem"`
	Description Text `json:"description"`

	// DeviceID and Model are optional; the sysfs media probe uses DeviceID
	// to locate the block device.
	DeviceID Text `json:"deviceId,omitempty"`
	Model    Text `json:"model,omitempty"`
}

// SystemContext describes the host the volume is attached to.
type SystemContext struct {
	// Platform is an OS name/version string, e.g. "Windows 11" or "Linux".
	Platform       Text `json:"platform"`
	UEFISecureBoot Flag `json:"uefiSecureBoot"`

	// Informational fields; they are logged but never change a decision.
	Release     Text   `json:"release,omitempty"`
	Arch        Text   `json:"arch,omitempty"`
	TotalMemory Number `json:"totalMemory,omitempty"`
	FreeMemory  Number `json:"freeMemory,omitempty"`
	CPUCount    Number `json:"cpuCount,omitempty"`
	Timestamp   Number `json:"timestamp,omitempty"`

	// platformSet records that the decoded record carried a non-null
	// platform key, even an empty one.
	platformSet bool
}

// PlatformOr returns the platform string, or def when the record had no
// platform key. A platform that was supplied empty is returned as is.
func (s SystemContext) PlatformOr(def string) string {
	if s.platformSet || s.Platform != "" {
		return string(s.Platform)
	}
	return def
}

// Features are the normalized values the scorer works on. They are computed
// once per analysis and never mutated.
type Features struct {
	IsSSD      bool
	SizeGB     float64
	FileSystem string
}

// MediaLabel returns "SSD" or "HDD".
func (f Features) MediaLabel() string {
	if f.IsSSD {
		return "SSD"
	}
	return "HDD"
}

// RecommendedKeys are the DiskInfo keys the host is expected to send.
// Missing keys only produce a warning.
var RecommendedKeys = []string{"caption", "size", "driveType"}

// Package extract wraps the third-party extraction tooling (EXIF tag
// reading, ffprobe multimedia probing) behind functions returning
// treedict structures, keeping the scanner layer free of any library
// specific types.
package extract

// Capability is the result of probing for an external dependency. A
// scanner's pre-checks evaluate this once and cache the outcome.
type Capability struct {
	Available bool
	Version   string
	Reason    string
}

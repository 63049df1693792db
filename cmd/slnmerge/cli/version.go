// cmd/slnmerge/cli/version.go
package cli

import "github.com/willibrandon/slnmerge/cmd/slnmerge/version"

// GetVersion returns formatted version information
func GetVersion() string {
	return version.Version
}

// GetFullVersion returns detailed version information
func GetFullVersion() string {
	return version.FullInfo()
}

// Package buildconfig carries the values stamped in at link time:
//
//	go build -ldflags "-X github.com/Harshitk-cp/sump-console/internal/buildconfig.version=v1.2.0"
package buildconfig

import "runtime"

const product = "sump-console"

var (
	version = "dev"
	commit  = "unknown"
)

func Version() string { return version }

func Commit() string { return commit }

// UserAgent is sent with every call to the SUMP API.
func UserAgent() string {
	return product + "/" + version
}

// VersionInfo is the body of GET /version.
func VersionInfo() map[string]string {
	return map[string]string{
		"name":    product,
		"version": version,
		"commit":  commit,
		"go":      runtime.Version(),
	}
}

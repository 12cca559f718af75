package config

import (
	"os"
	"sync"
)

const envHome = "PERFREPORT_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the directory a relative tests dir is resolved against.
//
// Resolution order:
//  1. $PERFREPORT_HOME environment variable
//  2. Current working directory
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

func resolveHome() string {
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}

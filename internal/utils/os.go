package utils

import (
	"os"
	"path/filepath"
)

// DefaultName is used when the running executable cannot be determined
const DefaultName = "holdpad"

// ExecutableName returns the base name of the running binary, for help
// text and error hints
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return DefaultName
	}
	return filepath.Base(executable)
}

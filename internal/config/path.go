package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" to the user's home directory and then
// substitutes $VAR and ${VAR} references. Database paths, DSNs and token
// files all pass through it, so "~/.local/share/grocer/grocer.db" works in
// config files and environment variables alike.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~" || strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}

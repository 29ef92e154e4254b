package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const excerptSuffix = "... (%d more bytes)"

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func Contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// SplitEnvEntry splits a KEY=VALUE entry on the first '='.
func SplitEnvEntry(entry string) (string, string, bool) {
	key, value, found := strings.Cut(entry, "=")
	if !found || key == "" {
		return "", "", false
	}
	return key, value, true
}

// Excerpt shortens s to at most limit bytes without splitting a rune, noting
// how much was left out.
func Excerpt(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + fmt.Sprintf(excerptSuffix, len(s)-cut)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func WriteToFile(fs afero.Fs, filePath string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fs, filePath, data, 0o644)
}

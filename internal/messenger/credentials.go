package messenger

import (
	"fmt"
	"os"
	"strings"
)

// Credential resolves a value that is either a literal secret or a path to
// a file holding the secret as its sole content. Anything that does not
// name a readable regular file is treated as a literal.
func Credential(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	info, err := os.Stat(value)
	if err != nil || info.IsDir() {
		return value, nil
	}

	data, err := os.ReadFile(value)
	if err != nil {
		return "", fmt.Errorf("read credential file %s: %w", value, err)
	}
	return strings.TrimSpace(string(data)), nil
}

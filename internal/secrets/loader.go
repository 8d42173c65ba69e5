package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Origins reported by Resolve.
const (
	OriginFile   = "file"
	OriginInline = "inline"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration, flags or environment.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Value.
	File string
}

// Secret is a resolved secret together with where it came from.
type Secret struct {
	Value  string
	Origin string
}

// Load returns the resolved secret value from the provided source.
func Load(src Source) (string, error) {
	secret, err := Resolve(src)
	if err != nil {
		return "", err
	}
	return secret.Value, nil
}

// Resolve reads the secret, preferring File over Value. The returned value is
// always trimmed. An error is returned when neither contains a usable secret.
func Resolve(src Source) (Secret, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return Secret{}, fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value := strings.TrimSpace(string(data))
		if value == "" {
			return Secret{}, fmt.Errorf("%s file %q is empty", name, file)
		}
		return Secret{Value: value, Origin: OriginFile}, nil
	}

	if value := strings.TrimSpace(src.Value); value != "" {
		return Secret{Value: value, Origin: OriginInline}, nil
	}

	return Secret{}, fmt.Errorf("%s is not configured", name)
}

// Mask hides all but the last four characters of a secret for display.
func Mask(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

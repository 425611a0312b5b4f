package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateProjectCode generates the code an admin hands to partners, in
// the format XXXX-XXXX-XXXX.
func GenerateProjectCode() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	code := strings.ToUpper(hex.EncodeToString(bytes))
	return fmt.Sprintf("%s-%s-%s",
		code[0:4],
		code[4:8],
		code[8:12],
	), nil
}

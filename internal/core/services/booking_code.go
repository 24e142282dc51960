package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// newBookingCode returns the human-readable reference printed on the
// ticket, e.g. EH-4F9A2C1B.
func newBookingCode() (string, error) {
	byt := make([]byte, 4)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return fmt.Sprintf("EH-%s", strings.ToUpper(hex.EncodeToString(byt))), nil
}

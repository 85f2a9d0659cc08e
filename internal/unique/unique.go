// Package unique provides index keys for unique field constraints.
package unique

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key computes the index key for a unique constraint.
// Values are compared exactly, so keys are case-sensitive.
func Key(entityType, field, value string) string {
	data := fmt.Sprintf("%s#%s#%s", entityType, field, value)
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:16]) // 128-bit hash as hex
}

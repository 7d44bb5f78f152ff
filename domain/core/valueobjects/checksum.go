package valueobjects

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	pkgerrors "lexmatter/pkg/errors"
)

// Checksum is a SHA-256 digest identifying document content. It is stored
// as lower-case hex and compared exactly.
type Checksum struct {
	value string
}

// ComputeChecksum hashes raw content into a Checksum
func ComputeChecksum(content []byte) Checksum {
	sum := sha256.Sum256(content)
	return Checksum{value: hex.EncodeToString(sum[:])}
}

// NewChecksumFromHex creates a Checksum from an existing hex digest
func NewChecksumFromHex(digest string) (Checksum, error) {
	digest = strings.ToLower(strings.TrimSpace(digest))
	if len(digest) != sha256.Size*2 {
		return Checksum{}, pkgerrors.NewValidationError("checksum must be a 64-character hex digest")
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return Checksum{}, pkgerrors.NewValidationError("checksum must be valid hex")
	}
	return Checksum{value: digest}, nil
}

// String returns the hex digest
func (c Checksum) String() string {
	return c.value
}

// IsZero checks if the Checksum is the zero value
func (c Checksum) IsZero() bool {
	return c.value == ""
}

// Equals checks if two checksums are equal
func (c Checksum) Equals(other Checksum) bool {
	return c.value == other.value
}

package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// chunkID derives the stable content address for a chunk from its structural
// position. 128 bits of sha256 keeps IDs stable across runs and platforms;
// the content itself is deliberately not part of the hash.
func chunkID(source string, page, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", source, page, index)))
	return hex.EncodeToString(sum[:16])
}

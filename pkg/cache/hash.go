package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
)

// Hash returns the hex SHA-256 of data. Inputs are identified by this
// content hash throughout the pipeline.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey returns "kind:<sha256>" over the content hash and the JSON form
// of opts. Adding a field to an options struct therefore changes every key
// of that kind, which retires stale entries.
func digestKey(kind, contentHash string, opts any) string {
	h := sha256.New()
	io.WriteString(h, contentHash)
	h.Write([]byte{0})
	// Options are flat structs of scalars; encoding them cannot fail.
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

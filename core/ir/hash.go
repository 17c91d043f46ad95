package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ContentHash is a sha256 digest of a marshaled IR value, used as a cache
// key by adapters/store.
type ContentHash string

// Hash computes the ContentHash of any JSON-marshalable value. Determinism
// depends on the value's own ordering guarantees (OrderedMap's insertion
// order, slice order) rather than on map iteration, since Go's
// encoding/json sorts map[string]V keys but OrderedMap is marshaled as
// its own ordered form — see MarshalJSON on OrderedMap.
func Hash(v interface{}) (ContentHash, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return ContentHash(hex.EncodeToString(sum[:])), nil
}

package source

import (
	"github.com/minio/highwayhash"
)

// digestKey is fixed so digests are comparable across runs.
var digestKey = []byte("record-linker/output-digest/v1..")

// Digest returns the 64-bit HighwayHash of data.
func Digest(data []byte) (uint64, error) {
	h, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}

	if _, err := h.Write(data); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

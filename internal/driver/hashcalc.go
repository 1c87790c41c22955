package driver

import (
	"crypto/sha256"
	"fmt"

	"mmdcheck/internal/engine"
)

// Digest is a SHA-256 value; file content hashes use the same shape.
type Digest [32]byte

// combineDigest: H(content || part1 || part2 ...).
func combineDigest(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint identifies everything besides the file content that a cached
// result depends on: the engine settings and the tool version.
func Fingerprint(cfg engine.Config, toolVersion string) Digest {
	desc := fmt.Sprintf("schema=%d version=%s level=%s html=%t",
		diskCacheSchemaVersion, toolVersion, cfg.SecurityLevel, cfg.HTMLLabels)
	return sha256.Sum256([]byte(desc))
}

// cacheKey derives the cache entry of a file content under fingerprint fp.
func cacheKey(content [32]byte, fp Digest) Digest {
	return combineDigest(content, fp[:])
}

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Entry kinds. Keys built by [DefaultKeyer] start with one of them, after
// any [ScopedKeyer] prefix.
const (
	KindAnalysis = "analysis"
	KindLayout   = "layout"
	KindArtifact = "artifact"
	KindHTTP     = "http"
	KindOther    = "other"
)

var kinds = []string{KindAnalysis, KindLayout, KindArtifact, KindHTTP}

// hashKey returns "<kind>:<sha256 of the JSON-encoded parts>".
func hashKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = fmt.Appendf(nil, "%#v", parts)
	}
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. The pipeline keys layouts and
// artifacts by the hash of the graph or layout they derive from.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Kind returns the entry kind a key names, or [KindOther].
//
//	Kind("analysis:3f9a…")               // "analysis"
//	Kind("model:qwen:analysis:3f9a…")    // "analysis"
//	Kind("http:gutenberg::1342")         // "http"
func Kind(key string) string {
	for _, seg := range strings.Split(key, ":") {
		if slices.Contains(kinds, seg) {
			return seg
		}
	}
	return KindOther
}

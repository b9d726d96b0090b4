// Package evidence provides the verification-evidence persistence adapter: a
// SQLite-backed key/value store holding fixed-length feature vectors plus
// arbitrary metadata, with brute-force cosine nearest-neighbor search.
//
// The feature encoding is a stored-data contract: dimension offsets, the
// string hash and the sign-bit expansion must stay bit-for-bit stable so new
// builds keep interoperating with previously stored vectors.
package evidence

import (
	"fmt"
	"math"
	"time"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// VectorDim is the fixed feature vector length.
const VectorDim = 128

// Fixed dimension offsets within the feature vector.
const (
	dimAccuracy   = 0
	dimConfidence = 1
	dimPassed     = 2

	dimTimeOfDay = 16 // 16..18: hour, minute, weekday fractions
	dimPhaseBase = 32 // 32..37: one-hot over the six known phases

	dimTaskHash     = 48 // 48..63: sign bits of hash(taskId)
	dimSessionHash  = 64 // 64..79: sign bits of hash(sessionId)
	dimSnapshotHash = 80 // 80..95: sign bits of hash(snapshotId)

	hashWidth = 16
)

// TruthKey returns the store key for a task's truth record.
func TruthKey(taskID core.TaskID) string {
	return "truth:" + string(taskID)
}

// SnapshotKey returns the store key for a task snapshot record.
func SnapshotKey(taskID core.TaskID, snapshotID string) string {
	return fmt.Sprintf("snapshot:%s:%s", taskID, snapshotID)
}

// Features is the named input to the vector encoder.
type Features struct {
	Accuracy   float64 // truth score in [0,1]
	Confidence float64 // detection confidence in [0,1]
	Passed     bool    // external verifier outcome
	Timestamp  time.Time
	Phase      core.Phase
	TaskID     core.TaskID
	SessionID  string
	SnapshotID string
}

// Encode maps features onto the 128-dimension vector by fixed offsets.
// Unassigned dimensions stay zero.
func Encode(f Features) []float64 {
	v := make([]float64, VectorDim)

	v[dimAccuracy] = f.Accuracy
	v[dimConfidence] = f.Confidence
	if f.Passed {
		v[dimPassed] = 1
	}

	if !f.Timestamp.IsZero() {
		t := f.Timestamp.UTC()
		v[dimTimeOfDay] = float64(t.Hour()) / 24
		v[dimTimeOfDay+1] = float64(t.Minute()) / 60
		v[dimTimeOfDay+2] = float64(t.Weekday()) / 7
	}

	if idx := core.PhaseOrder(f.Phase); idx >= 0 {
		v[dimPhaseBase+idx] = 1
	}

	signBits(string(f.TaskID), v[dimTaskHash:dimTaskHash+hashWidth])
	signBits(f.SessionID, v[dimSessionHash:dimSessionHash+hashWidth])
	signBits(f.SnapshotID, v[dimSnapshotHash:dimSnapshotHash+hashWidth])

	return v
}

// hash32 is the 32-bit multiply-add string hash (h = h*31 + byte). It is part
// of the storage contract; do not replace it with a different hash.
func hash32(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// signBits expands the low bits of hash32(s) into ±1 dimensions. Empty
// strings leave the slot zeroed so absent identifiers stay distinguishable
// from hashed ones.
func signBits(s string, dst []float64) {
	if s == "" {
		return
	}
	h := hash32(s)
	for i := range dst {
		if h&(1<<uint(i)) != 0 {
			dst[i] = 1
		} else {
			dst[i] = -1
		}
	}
}

// CosineSimilarity computes the cosine similarity of two equal-length
// vectors; zero vectors compare as 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

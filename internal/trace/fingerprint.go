package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/roach88/strparse/internal/engine"
	"github.com/roach88/strparse/internal/store"
)

// DomainRun prefixes run fingerprints. The version suffix changes whenever
// the fingerprinted fields change.
const DomainRun = "strparse/run/v1"

// fingerprintDoc is the hashed view of a run. Run ids and step counts are
// left out: the id is assigned after the parse, and the count is implied
// by the steps.
type fingerprintDoc struct {
	Config        string             `json:"config"`
	Input         string             `json:"input"`
	Output        string             `json:"output"`
	ErrorCode     string             `json:"error_code"`
	ErrorPosition int                `json:"error_position"`
	Steps         []engine.StepEvent `json:"steps"`
}

// hashWithDomain returns hex(SHA256(domain + 0x00 + data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content hash of a run and its steps. Two runs of
// the same parser over the same input have equal fingerprints exactly
// when their outcome and step sequence agree.
func Fingerprint(run store.Run, steps []engine.StepEvent) string {
	if steps == nil {
		steps = []engine.StepEvent{}
	}
	doc := fingerprintDoc{
		Config:        run.Config,
		Input:         run.Input,
		Output:        run.Output,
		ErrorCode:     run.ErrorCode,
		ErrorPosition: run.ErrorPosition,
		Steps:         steps,
	}
	// Fixed struct of strings, ints and StepEvents; Marshal cannot fail.
	data, _ := json.Marshal(doc)
	return hashWithDomain(DomainRun, data)
}

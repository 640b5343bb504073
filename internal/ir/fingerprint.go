package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainNode is the domain prefix for node fingerprints. The version suffix
// allows the algorithm to change without colliding with old values.
const DomainNode = "fedcore/node/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content hash of n: its NFC-normalized canonical
// text and its type text, separated by NUL. Two nodes with the same
// fingerprint are Same.
func Fingerprint(n Node) string {
	text := norm.NFC.String(n.String())
	data := make([]byte, 0, len(text)+64)
	data = append(data, text...)
	data = append(data, 0x00)
	data = append(data, typeText(n.TypeSignature())...)
	return hashWithDomain(DomainNode, data)
}

// Description is a JSON-friendly summary of a node.
type Description struct {
	Kind        string `json:"kind"`
	Repr        string `json:"repr"`
	Type        string `json:"type"`
	Fingerprint string `json:"fingerprint"`
}

// Describe summarizes n.
func Describe(n Node) Description {
	return Description{
		Kind:        n.Kind().String(),
		Repr:        n.String(),
		Type:        typeText(n.TypeSignature()),
		Fingerprint: Fingerprint(n),
	}
}

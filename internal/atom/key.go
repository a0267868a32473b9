package atom

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed atom identity.
// The version suffix leaves room for a future algorithm migration.
const (
	DomainNode = "hypermatch/node/v1"
	DomainLink = "hypermatch/link/v1"
)

// NormalizeName returns the NFC form of a node name.
// Two names that differ only in Unicode composition name the same node.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// NodeKey computes the identity key of a node.
// Stores keep at most one atom per key.
func NodeKey(t Type, name string) (string, error) {
	if t == "" {
		return "", fmt.Errorf("NodeKey: empty type")
	}
	canonical, err := MarshalCanonical(map[string]any{
		"type": t,
		"name": NormalizeName(name),
	})
	if err != nil {
		return "", fmt.Errorf("NodeKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainNode, canonical), nil
}

// LinkKey computes the identity key of a link from its type and the
// handles of its outgoing set. Handles are store-local, so link keys are
// only comparable within one store.
func LinkKey(t Type, outgoing []Handle) (string, error) {
	if t == "" {
		return "", fmt.Errorf("LinkKey: empty type")
	}
	if outgoing == nil {
		outgoing = []Handle{}
	}
	canonical, err := MarshalCanonical(map[string]any{
		"type": t,
		"out":  outgoing,
	})
	if err != nil {
		return "", fmt.Errorf("LinkKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainLink, canonical), nil
}

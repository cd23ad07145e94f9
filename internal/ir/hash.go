package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainQuestion = "nlquery/question/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeQuestion canonicalizes a sentence for identity purposes:
// NFC normalized, lower-cased, inner whitespace collapsed, and a single
// trailing question mark.
func NormalizeQuestion(sentence string) string {
	s := norm.NFC.String(sentence)
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	s = strings.TrimRight(s, "? ")
	return s + "?"
}

// Fingerprint computes the content-addressed identity of a question.
// "Who is Obama?" and "who is  obama" share a fingerprint.
func Fingerprint(sentence string) string {
	return hashWithDomain(DomainQuestion, []byte(NormalizeQuestion(sentence)))
}

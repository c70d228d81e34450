package logstore

import (
	"fmt"
	"strings"
	"time"
)

// Key layout:
//
//	interactions/{year}/{month}/{day}/{candidateId}/{requestId}.json
//	outcomes/{year}/{month}/{day}/{candidateId}/{requestId}.json
//	metrics/{candidateId}/summary.json
//
// The date prefix partitions writes; reads scan the kind prefix and
// match the candidate segment.

const (
	interactionPrefix = "interactions/"
	outcomePrefix     = "outcomes/"

	// candidateSegment is the index of the candidate id in a record key.
	candidateSegment = 4
	recordKeyParts   = 6
)

func recordKey(prefix, candidateID, requestID string, ts time.Time) string {
	ts = ts.UTC()
	return fmt.Sprintf("%s%04d/%02d/%02d/%s/%s.json",
		prefix, ts.Year(), int(ts.Month()), ts.Day(), candidateID, requestID)
}

func interactionKey(candidateID, requestID string, ts time.Time) string {
	return recordKey(interactionPrefix, candidateID, requestID, ts)
}

func outcomeKey(candidateID, requestID string, ts time.Time) string {
	return recordKey(outcomePrefix, candidateID, requestID, ts)
}

func summaryKey(candidateID string) string {
	return fmt.Sprintf("metrics/%s/summary.json", candidateID)
}

// keyMatchesCandidate reports whether a record key belongs to the
// candidate. Keys with an unexpected shape never match.
func keyMatchesCandidate(key, candidateID string) bool {
	parts := strings.Split(key, "/")
	return len(parts) >= recordKeyParts && parts[candidateSegment] == candidateID
}

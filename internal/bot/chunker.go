package bot

import "strings"

// ChunkMessages greedily packs formatted records into chunks no longer than
// maxLength, preserving record order. Every record lands in exactly one
// chunk. A single record longer than maxLength is emitted as its own
// over-length chunk; empty chunks are never produced.
func ChunkMessages(records []string, maxLength int) []string {
	var chunks []string
	var current strings.Builder
	for _, record := range records {
		if current.Len() > 0 && current.Len()+len(record) > maxLength {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(record)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

package importer

import "encoding/json"

// ChunkLimits bounds one commit payload. Zero means unlimited.
type ChunkLimits struct {
	MaxItems        int
	MaxPayloadBytes int
}

// Chunk splits items into payload-sized batches, preserving order and never
// dropping or duplicating an item. The byte estimate tracks the serialized
// JSON array: 2 bytes of brackets plus each item and its separator. An item
// larger than MaxPayloadBytes still gets a chunk of its own rather than
// being dropped.
func Chunk[T any](items []T, limits ChunkLimits) [][]T {
	if len(items) == 0 {
		return nil
	}

	var chunks [][]T
	var current []T
	currentBytes := 2

	for _, item := range items {
		itemBytes := jsonBytes(item)
		exceedsItems := limits.MaxItems > 0 && len(current) >= limits.MaxItems
		exceedsBytes := limits.MaxPayloadBytes > 0 && len(current) > 0 &&
			currentBytes+itemBytes+1 > limits.MaxPayloadBytes

		if exceedsItems || exceedsBytes {
			chunks = append(chunks, current)
			current = nil
			currentBytes = 2
		}

		current = append(current, item)
		currentBytes += itemBytes + 1
	}

	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

func jsonBytes(v any) int {
	serialized, err := json.Marshal(v)
	if err != nil || len(serialized) == 0 {
		return 1
	}
	return len(serialized)
}

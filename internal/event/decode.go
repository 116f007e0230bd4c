package event

import "encoding/json"

// DecodePayload converts an event payload to T. Events published in-process
// through the MemoryBus still carry the concrete payload struct, so the type
// assertion is the fast path; payloads read back from the dead-letter file
// arrive as generic JSON maps and take the marshal round trip instead.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

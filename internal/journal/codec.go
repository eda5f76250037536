package journal

import (
	"encoding/json"

	"github.com/valyala/fastjson"
)

// encodeEntries serializes the full ordered sequence to a JSON array.
func encodeEntries(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// decodeEntries parses decrypted journal plaintext. The decode is deliberately
// tolerant: a payload that is not JSON, or not a top-level array, yields an
// empty history, and array elements that are not objects are skipped. A
// corrupted-but-decryptable file must not brick the user out of the app.
func decodeEntries(plaintext []byte) []Entry {
	var p fastjson.Parser
	v, err := p.ParseBytes(plaintext)
	if err != nil {
		return []Entry{}
	}
	if v.Type() != fastjson.TypeArray {
		return []Entry{}
	}

	arr, _ := v.Array()
	entries := make([]Entry, 0, len(arr))
	for _, item := range arr {
		if item.Type() != fastjson.TypeObject {
			continue
		}

		e := Entry{
			ID:        string(item.GetStringBytes("id")),
			Timestamp: string(item.GetStringBytes("timestamp")),
			EventType: string(item.GetStringBytes("event_type")),
			Preview:   string(item.GetStringBytes("preview")),
			Meta:      map[string]any{},
		}

		// Meta is an open mapping the journal does not interpret; round-trip
		// it through encoding/json to get plain Go values.
		if mv := item.Get("meta"); mv != nil && mv.Type() == fastjson.TypeObject {
			_ = json.Unmarshal(mv.MarshalTo(nil), &e.Meta)
		}

		entries = append(entries, e)
	}
	return entries
}

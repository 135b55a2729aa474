package domain

import "encoding/json"

// ItemRecord is one item as returned by the fetch endpoint. The payload is
// kept verbatim; only the "id" field is interpreted.
type ItemRecord struct {
	ID  string
	Raw json.RawMessage
}

func (r ItemRecord) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

func (r *ItemRecord) UnmarshalJSON(data []byte) error {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	r.ID = probe.ID
	r.Raw = append(r.Raw[:0], data...)
	return nil
}

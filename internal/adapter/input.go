package adapter

import "encoding/json"

// Input is a decoded tool argument object. Values follow encoding/json
// conventions (numbers are float64, arrays are []any).
type Input map[string]any

func DecodeInput(data json.RawMessage) (Input, error) {
	in := Input{}
	if len(data) == 0 || string(data) == "null" {
		return in, nil
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	return in, nil
}

func (in Input) String(key string) string {
	s, _ := in[key].(string)
	return s
}

func (in Input) Bool(key string) bool {
	b, _ := in[key].(bool)
	return b
}

func (in Input) Int(key string) (int, bool) {
	n, ok := toFloat(in[key])
	if !ok {
		return 0, false
	}
	return int(n), true
}

func (in Input) Strings(key string) []string {
	items, ok := toSlice(in[key])
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

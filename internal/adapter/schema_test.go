package adapter

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSchemaValidate(t *testing.T) {
	schema := ObjectSchema(map[string]Property{
		"path":   {Type: TypeString},
		"format": {Type: TypeString, Enum: []string{"html", "pdf"}},
		"port":   {Type: TypeInteger, Minimum: ptr(1)},
		"ratio":  {Type: TypeNumber},
		"drafts": {Type: TypeBoolean},
		"tags":   {Type: TypeArray, Items: &Property{Type: TypeString}},
	}, "path")

	tests := []struct {
		name    string
		in      Input
		wantErr string
	}{
		{"minimal", Input{"path": "/site"}, ""},
		{"all fields", Input{"path": "/site", "format": "pdf", "port": 8080.0, "ratio": 0.5, "drafts": true, "tags": []any{"a", "b"}}, ""},
		{"string slice", Input{"path": "/site", "tags": []string{"a"}}, ""},
		{"null optional", Input{"path": "/site", "port": nil}, ""},
		{"missing required", Input{}, "missing required field \"path\""},
		{"null required", Input{"path": nil}, "missing required field"},
		{"unknown", Input{"path": "/site", "extra": 1.0}, "unknown field \"extra\""},
		{"bad enum", Input{"path": "/site", "format": "epub"}, "must be one of"},
		{"fractional integer", Input{"path": "/site", "port": 80.5}, "must be integer"},
		{"below minimum", Input{"path": "/site", "port": 0.0}, "must be >= 1"},
		{"string as bool", Input{"path": "/site", "drafts": "true"}, "must be boolean"},
		{"bad item", Input{"path": "/site", "tags": []any{"a", 2.0}}, "tags[1]"},
		{"option as path", Input{"path": "--dest-dir=/etc/evil"}, "must not start with '-'"},
		{"short option", Input{"path": "-o"}, "must not start with '-'"},
		{"option as item", Input{"path": "/site", "tags": []any{"a", "--force"}}, "tags[1]"},
		{"dash inside value", Input{"path": "/site/my-blog", "format": "html"}, ""},
		{"relative path", Input{"path": "./-site"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSchemaJSONShape(t *testing.T) {
	data, err := json.Marshal(DefaultSchema(OpBuild))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["type"] != "object" {
		t.Errorf("expected type object, got %v", decoded["type"])
	}
	props, ok := decoded["properties"].(map[string]any)
	if !ok || props["path"] == nil {
		t.Fatalf("expected path property, got %v", decoded["properties"])
	}
	if strings.Contains(string(data), "IsPath") {
		t.Error("internal fields must not be published")
	}
}

func TestDecodeInput(t *testing.T) {
	in, err := DecodeInput(json.RawMessage(`{"path":"/site","port":8080,"tags":["x"]}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if in.String("path") != "/site" {
		t.Errorf("unexpected path %q", in.String("path"))
	}
	if port, ok := in.Int("port"); !ok || port != 8080 {
		t.Errorf("unexpected port %d", port)
	}
	if tags := in.Strings("tags"); len(tags) != 1 || tags[0] != "x" {
		t.Errorf("unexpected tags %v", tags)
	}

	empty, err := DecodeInput(nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty input, got %v, %v", empty, err)
	}

	if _, err := DecodeInput(json.RawMessage(`[1,2]`)); err == nil {
		t.Error("expected error for non-object arguments")
	}
}

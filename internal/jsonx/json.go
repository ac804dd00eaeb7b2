// Package jsonx is the JSON codec used for API bodies and stored records.
// It uses sonic on amd64/arm64 and falls back to encoding/json elsewhere.
package jsonx

import (
	stdjson "encoding/json"
	"runtime"

	"github.com/bytedance/sonic"
)

var (
	// Marshal encodes v into JSON bytes.
	Marshal func(v any) ([]byte, error)

	// Unmarshal decodes JSON bytes into v.
	Unmarshal func(data []byte, v any) error
)

func init() {
	if runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64" {
		Marshal = sonic.Marshal
		Unmarshal = sonic.Unmarshal
		return
	}

	Marshal = stdjson.Marshal
	Unmarshal = stdjson.Unmarshal
}

// MarshalIndent encodes v with two-space indentation. Output formatting is
// not on a hot path, so it always goes through encoding/json.
func MarshalIndent(v any) ([]byte, error) {
	return stdjson.MarshalIndent(v, "", "  ")
}

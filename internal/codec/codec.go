// Package codec wraps the wire JSON codec so the rest of the server only
// depends on "serialize value" / "parse payload".
package codec

import "github.com/bytedance/sonic"

func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

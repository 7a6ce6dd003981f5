// Package jsonenc encodes solve results as JSON for the CLI's --json flag,
// using sonnet the way syncharvester.go uses it for its own JSON decoding.
// The binary wire records are not dumped as JSON.
package jsonenc

import "github.com/sugawarayuuta/sonnet"

// RulerJSON is the on-the-wire JSON shape for a solved ruler.
type RulerJSON struct {
	N              int    `json:"n"`
	MaxLen         int    `json:"max_len"`
	Length         int    `json:"length"`
	Marks          []int  `json:"marks"`
	Explored       int64  `json:"explored"`
	Design         string `json:"coordinator_design,omitempty"`
	PrefixesServed int    `json:"prefixes_served,omitempty"`
}

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return sonnet.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return sonnet.Unmarshal(data, v)
}

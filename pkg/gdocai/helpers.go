package gdocai

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON renders a value as indented JSON for debug dumps
// Protocol buffer messages go through protojson so field names match the API.
func ToJSON(data any) (string, error) {
	var (
		out []byte
		err error
	)
	if msg, ok := data.(proto.Message); ok {
		out, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode %T as JSON: %w", data, err)
	}
	return string(out), nil
}

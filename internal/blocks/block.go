// Package blocks hydrates the dynamic blocks of page-builder pages with
// content from storage.
package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"campuscms/internal/models"
)

// Kind is the type of a page block.
type Kind string

// Dynamic block kinds. Every other kind is static content stored in the
// block's data.
const (
	LatestArticles Kind = "latest_articles"
	SliderModule   Kind = "slider_module"
	EventsList     Kind = "events_list"
	FacilitiesGrid Kind = "facilities_grid"
	ProgramStudies Kind = "program_studies"
)

// Dynamic reports whether blocks of kind k are filled from storage.
func (k Kind) Dynamic() bool {
	_, ok := handlers[k]
	return ok
}

// Block is one entry of a page's block list.
type Block struct {
	ID   string         `json:"id"`
	Type Kind           `json:"type"`
	Data map[string]any `json:"data"`
}

// UnmarshalJSON accepts numeric ids and a non-object data field, both of
// which older builder versions produce.
func (b *Block) UnmarshalJSON(p []byte) error {
	var raw struct {
		ID   any             `json:"id"`
		Type any             `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(p, &raw); err != nil {
		return err
	}

	*b = Block{ID: scalarString(raw.ID), Type: Kind(scalarString(raw.Type))}
	data := bytes.TrimSpace(raw.Data)
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &b.Data); err != nil {
			return err
		}
	}
	return nil
}

func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Parse decodes a stored or submitted block list. Empty input yields no
// blocks.
func Parse(raw []byte) ([]Block, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var bs []Block
	if err := json.Unmarshal(raw, &bs); err != nil {
		return nil, fmt.Errorf("%w: malformed block list: %v", models.ErrInvalid, err)
	}
	return bs, nil
}

package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

type FieldType string

const (
	FieldText            FieldType = "text"
	FieldTextarea        FieldType = "textarea"
	FieldRichText        FieldType = "wp-editor"
	FieldSelect          FieldType = "select"
	FieldMultiselect     FieldType = "multiselect"
	FieldRadio           FieldType = "radio"
	FieldTermSelect      FieldType = "term-select"
	FieldTermMultiselect FieldType = "term-multiselect"
	FieldTermChecklist   FieldType = "term-checklist"
	FieldFile            FieldType = "file"
	FieldDate            FieldType = "date"
	FieldTime            FieldType = "time"
	FieldEmail           FieldType = "email"
	FieldURL             FieldType = "url"
	FieldPassword        FieldType = "password"
	FieldHidden          FieldType = "hidden"
	FieldNumber          FieldType = "number"
)

// IsTermPick reports whether values of the type are taxonomy term references.
func (t FieldType) IsTermPick() bool {
	return t == FieldTermSelect || t == FieldTermMultiselect || t == FieldTermChecklist
}

// IsMulti reports whether the type submits more than one value.
func (t FieldType) IsMulti() bool {
	return t == FieldMultiselect || t == FieldTermMultiselect || t == FieldTermChecklist
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is one schema entry of a submission form.
type Field struct {
	Key              string            `json:"key"`
	Label            string            `json:"label"`
	Type             FieldType         `json:"type"`
	Required         bool              `json:"required"`
	Visibility       bool              `json:"visibility"`
	Priority         int               `json:"priority"`
	Placeholder      string            `json:"placeholder,omitempty"`
	Description      string            `json:"description,omitempty"`
	Options          []Option          `json:"options,omitempty"`
	Taxonomy         string            `json:"taxonomy,omitempty"`
	AllowedMimeTypes map[string]string `json:"allowed_mime_types,omitempty"`
	Multiple         bool              `json:"multiple,omitempty"`
	AdminOnly        bool              `json:"admin_only,omitempty"`
	Default          string            `json:"default,omitempty"`
	Value            []string          `json:"value,omitempty"`
}

// FieldOverride is an operator edit of a field. Nil members keep the default.
type FieldOverride struct {
	Label            *string           `json:"label,omitempty"`
	Type             *FieldType        `json:"type,omitempty"`
	Required         *Flag             `json:"required,omitempty"`
	Visibility       *Flag             `json:"visibility,omitempty"`
	Priority         *Number           `json:"priority,omitempty"`
	Placeholder      *string           `json:"placeholder,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Options          map[string]string `json:"options,omitempty"`
	Taxonomy         *string           `json:"taxonomy,omitempty"`
	AllowedMimeTypes map[string]string `json:"allowed_mime_types,omitempty"`
	Multiple         *Flag             `json:"multiple,omitempty"`
	AdminOnly        *Flag             `json:"admin_only,omitempty"`
	Default          *string           `json:"default,omitempty"`
}

// Flag decodes the loose booleans found in stored form blobs: true, 1, "1", "true", "yes".
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.ToLower(string(b)), `"`)
	switch s {
	case "true", "1", "yes", "on":
		*f = true
	default:
		*f = false
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Number decodes integers stored either as JSON numbers or numeric strings.
type Number int

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Values are submitted form values keyed by field key.
type Values map[string][]string

func (v Values) Get(key string) string {
	if vs := v[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (v Values) Set(key string, values ...string) {
	v[key] = values
}

// Empty reports whether the key carries no non-blank value.
func (v Values) Empty(key string) bool {
	for _, s := range v[key] {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

func (v Values) NonEmpty(key string) []string {
	var out []string
	for _, s := range v[key] {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldKind tags the type held by a FieldValue.
type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldNumber  FieldKind = "number"
	FieldBool    FieldKind = "bool"
	FieldOptions FieldKind = "options"
	// FieldRaw keeps JSON the engine does not interpret so that values for
	// unknown or richer field types survive a round trip unchanged.
	FieldRaw FieldKind = "raw"
)

// FieldValue is a single typed form answer.
type FieldValue struct {
	kind    FieldKind
	text    string
	number  float64
	boolean bool
	options []string
	raw     json.RawMessage
}

func TextValue(s string) FieldValue       { return FieldValue{kind: FieldText, text: s} }
func NumberValue(n float64) FieldValue    { return FieldValue{kind: FieldNumber, number: n} }
func BoolValue(b bool) FieldValue         { return FieldValue{kind: FieldBool, boolean: b} }
func OptionsValue(o ...string) FieldValue { return FieldValue{kind: FieldOptions, options: o} }

func (v FieldValue) Kind() FieldKind { return v.kind }

func (v FieldValue) Text() (string, bool)         { return v.text, v.kind == FieldText }
func (v FieldValue) Number() (float64, bool)      { return v.number, v.kind == FieldNumber }
func (v FieldValue) Bool() (bool, bool)           { return v.boolean, v.kind == FieldBool }
func (v FieldValue) Options() ([]string, bool)    { return v.options, v.kind == FieldOptions }
func (v FieldValue) Raw() (json.RawMessage, bool) { return v.raw, v.kind == FieldRaw }

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case FieldText:
		return json.Marshal(v.text)
	case FieldNumber:
		return json.Marshal(v.number)
	case FieldBool:
		return json.Marshal(v.boolean)
	case FieldOptions:
		if v.options == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.options)
	case FieldRaw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty field value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	case '[':
		var opts []string
		if err := json.Unmarshal(trimmed, &opts); err == nil {
			*v = OptionsValue(opts...)
			return nil
		}
	case 'n':
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err == nil {
			*v = NumberValue(n)
			return nil
		}
	}
	*v = FieldValue{kind: FieldRaw, raw: append(json.RawMessage(nil), trimmed...)}
	return nil
}

// FormValues maps form field ids to typed answers.
type FormValues map[int64]FieldValue

// Validate checks option answers against the options the form declares.
// Fields the form does not know about are accepted untouched.
func (fv FormValues) Validate(form *Form) error {
	for _, field := range form.Fields {
		v, ok := fv[field.ID]
		if !ok {
			continue
		}
		opts, isOptions := v.Options()
		if !isOptions || len(field.Options) == 0 {
			continue
		}
		for _, o := range opts {
			if !field.HasOption(o) {
				return fmt.Errorf("field %d: %q is not an option", field.ID, o)
			}
		}
	}
	return nil
}

// FormPayload is the stored value document of a task form.
type FormPayload struct {
	Form     FormValues `json:"form"`
	FormID   int64      `json:"formId"`
	FormName string     `json:"formName"`
}

// NewFormPayload returns an empty payload for a form.
func NewFormPayload(form *Form) FormPayload {
	return FormPayload{Form: FormValues{}, FormID: form.ID, FormName: form.Name}
}

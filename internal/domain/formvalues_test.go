package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormPayload_EncodesMediaSelection(t *testing.T) {
	form := &Form{ID: 7, Name: "Briefing"}
	p := NewFormPayload(form)
	p.Form[301] = OptionsValue("Facebook", "Linkedin")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"form":{"301":["Facebook","Linkedin"]},"formId":7,"formName":"Briefing"}`, string(data))
}

func TestFormPayload_EmptyFormIsObject(t *testing.T) {
	data, err := json.Marshal(NewFormPayload(&Form{ID: 1, Name: "x"}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"form":{}`)
}

func TestFormValues_DecodesTaggedKinds(t *testing.T) {
	var fv FormValues
	doc := `{"1":"hello","2":3.5,"3":true,"4":["a","b"],"5":{"nested":[1,2]},"6":[1,2]}`
	require.NoError(t, json.Unmarshal([]byte(doc), &fv))

	s, ok := fv[1].Text()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	n, ok := fv[2].Number()
	assert.True(t, ok)
	assert.Equal(t, 3.5, n)

	b, ok := fv[3].Bool()
	assert.True(t, ok)
	assert.True(t, b)

	opts, ok := fv[4].Options()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, opts)

	assert.Equal(t, FieldRaw, fv[5].Kind())
	assert.Equal(t, FieldRaw, fv[6].Kind())

	// Unknown shapes survive re-encoding.
	out, err := json.Marshal(fv)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(out))
}

func TestFormValues_ValidateOptions(t *testing.T) {
	form := &Form{Fields: []FormField{{ID: 301, Role: FieldRoleMedia, Options: []string{"Facebook", "Instagram"}}}}

	ok := FormValues{301: OptionsValue("Instagram"), 999: TextValue("unknown field")}
	assert.NoError(t, ok.Validate(form))

	bad := FormValues{301: OptionsValue("TikTok")}
	assert.Error(t, bad.Validate(form))
}

package djlex

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/go-djlex/diag"
	"github.com/dpotapov/go-djlex/lex"
)

func TestCheck(t *testing.T) {
	src := "{% if a == 1 %}x{% endif %}\n{% for x in y %}"
	r := Check("page.html", src)
	require.True(t, r.OK())
	require.Equal(t, "page.html", r.File().Name())

	want := []TagReport{
		{
			Name:  "if",
			At:    lex.Span{Offset: 0, Length: 15},
			Parts: &lex.Span{Offset: 6, Length: 6},
			Condition: []Token{
				{Kind: "Variable", Text: "a", Tag: "if", Value: true, Offset: 6, Length: 1, Line: 1, Column: 7},
				{Kind: "Equal", Text: "==", Tag: "if", Offset: 8, Length: 2, Line: 1, Column: 9},
				{Kind: "Numeric", Text: "1", Tag: "if", Value: true, Offset: 11, Length: 1, Line: 1, Column: 12},
			},
		},
		{Name: "endif", At: lex.Span{Offset: 16, Length: 11}},
		{Name: "for", At: lex.Span{Offset: 28, Length: 16}, Parts: &lex.Span{Offset: 35, Length: 6}},
	}
	if diff := cmp.Diff(want, r.Tags); diff != "" {
		t.Errorf("Check() tags diff (-want +got):\n%s", diff)
	}
	require.Len(t, r.Tokens(), 3)
}

func TestCheck_Diagnostics(t *testing.T) {
	src := "{% url'x' %}\n{% elif 'a'b or c %}\n{% if _(x) %}\n{%  %}"
	r := Check("page.html", src)
	require.False(t, r.OK())

	want := []diag.Diagnostic{
		{File: "page.html", Message: "invalid block tag name", Label: "here", Offset: 3, Length: 6, Line: 1, Column: 4},
		{File: "page.html", Message: "could not parse the remainder", Label: "here", Offset: 24, Length: 1, Line: 2, Column: 12},
		{File: "page.html", Message: "expected a complete translation string", Label: "here", Offset: 40, Length: 2, Line: 3, Column: 7},
	}
	if diff := cmp.Diff(want, r.Diagnostics, cmpopts.IgnoreFields(diag.Diagnostic{}, "Err")); diff != "" {
		t.Errorf("Check() diagnostics diff (-want +got):\n%s", diff)
	}
	require.ErrorIs(t, r.Diagnostics[0], lex.ErrInvalidTagName)
	require.ErrorIs(t, r.Diagnostics[1], lex.ErrInvalidRemainder)
	require.ErrorIs(t, r.Diagnostics[2], lex.ErrIncompleteTranslated)

	// The tag with the bad name is dropped, the conditions are kept with
	// the tokens lexed before the error.
	require.Len(t, r.Tags, 2)
	require.Equal(t, "elif", r.Tags[0].Name)
	require.Empty(t, r.Tags[0].Condition)
	require.Equal(t, "if", r.Tags[1].Name)
}

func TestCheck_ConditionOnlyForIf(t *testing.T) {
	r := Check("t", "{% with a='b'c %}{% if %}")
	require.True(t, r.OK())
	require.Len(t, r.Tags, 2)
	require.Nil(t, r.Tags[0].Condition)
	require.Nil(t, r.Tags[1].Parts)
}

func TestReport_JSON(t *testing.T) {
	r := Check("page.html", "{% if not x %}")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"name": "page.html",
		"tags": [{
			"name": "if",
			"at": {"offset": 0, "length": 14},
			"parts": {"offset": 6, "length": 5},
			"condition": [
				{"kind": "Not", "text": "not", "tag": "if", "value": false, "offset": 6, "length": 3, "line": 1, "column": 7},
				{"kind": "Variable", "text": "x", "tag": "if", "value": true, "offset": 10, "length": 1, "line": 1, "column": 11}
			]
		}],
		"diagnostics": null
	}`, string(data))
}

package lex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const (
	startTagLen = len("{%")
	endTagLen   = len("%}")
)

func trimTag(template string) string {
	return template[startTagLen : len(template)-endTagLen]
}

func TestLexTag(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     *Tag
		wantName string
	}{
		{
			name:     "empty",
			template: "{%  %}",
			want:     nil,
		},
		{
			name:     "blank",
			template: "{% \t\n %}",
			want:     nil,
		},
		{
			name:     "nameOnly",
			template: "{% csrftoken %}",
			want:     &Tag{Token: TagToken{At: Span{3, 9}}},
			wantName: "csrftoken",
		},
		{
			name:     "nameNoSpaces",
			template: "{%endif%}",
			want:     &Tag{Token: TagToken{At: Span{2, 5}}},
			wantName: "endif",
		},
		{
			name:     "withParts",
			template: "{% url name arg %}",
			want: &Tag{
				Token: TagToken{At: Span{3, 3}},
				Parts: &TagParts{At: Span{7, 8}},
			},
			wantName: "url",
		},
		{
			name:     "partsLeadingWhitespace",
			template: "{%   if \t  foo  %}",
			want: &Tag{
				Token: TagToken{At: Span{5, 2}},
				Parts: &TagParts{At: Span{11, 3}},
			},
			wantName: "if",
		},
		{
			name:     "unicodeName",
			template: "{% naïve x %}",
			want: &Tag{
				Token: TagToken{At: Span{3, 6}},
				Parts: &TagParts{At: Span{10, 1}},
			},
			wantName: "naïve",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LexTag(trimTag(tt.template), startTagLen)
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LexTag() diff (-want +got):\n%s", diff)
			}
			if got != nil {
				require.Equal(t, tt.wantName, got.Token.Content(Source(tt.template)))
			}
		})
	}
}

func TestLexTag_InvalidName(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     Span
	}{
		{"quoteAfterName", "{% url'foo' %}", Span{3, 8}},
		{"quoteAfterNameWithRest", "{% url'foo' bar %}", Span{3, 8}},
		{"noWhitespace", "{%url'foo'%}", Span{2, 8}},
		{"leadingSymbol", "{% 'foo' bar %}", Span{3, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LexTag(trimTag(tt.template), startTagLen)
			require.Nil(t, got)
			require.ErrorIs(t, err, ErrInvalidTagName)

			var lexErr *Error
			require.ErrorAs(t, err, &lexErr)
			require.Equal(t, tt.want, lexErr.At)
			require.Equal(t, "here", lexErr.Label())
		})
	}
}

func TestLexTag_Idempotent(t *testing.T) {
	template := "{% include 'base.html' with foo=bar %}"
	first, err := LexTag(trimTag(template), startTagLen)
	require.NoError(t, err)
	second, err := LexTag(trimTag(template), startTagLen)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "'base.html' with foo=bar", Source(template).Content(first.Parts.At))
}

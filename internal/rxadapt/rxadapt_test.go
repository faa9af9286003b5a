package rxadapt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractAllUsesGroupOneWhenPresent(t *testing.T) {
	re, err := Compile(`(?s)<title>(.+?)</title>`)
	require.NoError(t, err)

	got := ExtractAll(re, "<title><![CDATA[A]]></title><title><![CDATA[B]]></title>")
	require.Equal(t, []string{"<![CDATA[A]]>", "<![CDATA[B]]>"}, got)
}

func TestExtractAllUsesWholeMatchWithoutGroups(t *testing.T) {
	re, err := Compile(`ab+`)
	require.NoError(t, err)

	got := ExtractAll(re, "x abb y ab z")
	require.Equal(t, []string{"abb", "ab"}, got)
}

func TestExtractAllNoMatchesYieldsNil(t *testing.T) {
	re, err := Compile(`zzz`)
	require.NoError(t, err)

	require.Nil(t, ExtractAll(re, "hello"))
}

func TestDeleteAll(t *testing.T) {
	re, err := Compile(`li.`)
	require.NoError(t, err)
	require.Equal(t, "Ae", DeleteAll(re, "Alice"))
}

func TestCompileInvalidPattern(t *testing.T) {
	_, err := Compile(`(`)
	require.Error(t, err)
	var rxErr *RegexError
	require.ErrorAs(t, err, &rxErr)
}

// Copyright 2026 The Tally Authors
// SPDX-License-Identifier: MIT

package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Render(t *testing.T) {
	tbl := NewTable(
		Column{Header: "Name"},
		Column{Header: "Count", Align: AlignRight},
	)
	tbl.AddRow("alpha", "10")
	tbl.AddRow("bravo-long", "5")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	want := "" +
		"  Name        Count\n" +
		"  ----------  -----\n" +
		"  alpha          10\n" +
		"  bravo-long      5\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_MissingAndExtraValues(t *testing.T) {
	tbl := NewTable(Column{Header: "A"}, Column{Header: "B"})
	tbl.AddRow("only-one")
	tbl.AddRow("x", "y", "ignored")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Contains(t, buf.String(), "only-one")
	assert.NotContains(t, buf.String(), "ignored")
}

func TestTable_Truncates(t *testing.T) {
	tbl := NewTable(Column{Header: "Phrase", MaxWidth: 8})
	tbl.AddRow("a very long phrase")
	tbl.AddRow("short")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Contains(t, buf.String(), "a very …")
	assert.Contains(t, buf.String(), "short")
}

func TestTable_ColorDoesNotAffectWidth(t *testing.T) {
	tbl := NewTable(
		Column{Header: "N", Align: AlignRight, Color: func(v string) string { return "<" + v + ">" }},
		Column{Header: "X"},
	)
	tbl.AddRow("12", "a")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Contains(t, buf.String(), "  <12>  a\n")
}

func TestTable_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable().Render(&buf))
	assert.Empty(t, buf.String())
}

func TestTable_WriteError(t *testing.T) {
	tbl := NewTable(Column{Header: "A"})
	err := tbl.Render(failWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render table")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 0))
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "a…", truncate("abc", 2))
	assert.Equal(t, "…", truncate("abc", 1))
	assert.Equal(t, "hé…", truncate("héllo", 3))
}

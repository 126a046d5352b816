package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleList(t *testing.T) *model.ShoppingList {
	t.Helper()
	list := model.NewShoppingList()
	require.NoError(t, list.AddIngredient("oats", "cup", 1, "porridge"))
	require.NoError(t, list.AddIngredient("oats", "tablespoon", 8, "granola"))
	require.NoError(t, list.AddIngredient("egg", "item", 3, ""))
	require.NoError(t, list.AddIngredient("salt, flaky", "gram", 2.5, ""))
	return list
}

func TestWrite(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{
			format: FormatCSV,
			want:   "name,unit,amount\noats,cup,1.5\negg,item,3\n\"salt, flaky\",gram,2.5\n",
		},
		{
			format: FormatText,
			want:   "1.5 cup oats\n3 item egg\n2.5 gram salt, flaky\n",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, sampleList(t), tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleList(t), FormatJSON))

	var rows []model.Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, model.Row{Name: "oats", Unit: "cup", Amount: 1.5}, rows[0])

	buf.Reset()
	require.NoError(t, Write(&buf, model.NewShoppingList(), FormatJSON))
	assert.JSONEq(t, "[]", buf.String())
}

func TestWriteEmptyText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, model.NewShoppingList(), FormatText))
	assert.Empty(t, buf.String())
}

func TestWriteKindMismatch(t *testing.T) {
	list := model.NewShoppingList()
	require.NoError(t, list.AddIngredient("butter", "cup", 1, "a"))
	require.NoError(t, list.AddIngredient("butter", "gram", 100, "b"))

	var buf bytes.Buffer
	err := Write(&buf, list, FormatCSV)
	assert.ErrorIs(t, err, model.ErrTypeMismatch)
	assert.Empty(t, buf.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "CSV", want: FormatCSV},
		{in: "json", want: FormatJSON},
		{in: "txt", want: FormatText},
		{in: "", want: FormatText},
		{in: "xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var buf bytes.Buffer
	assert.Error(t, Write(&buf, model.NewShoppingList(), Format("xml")))
}

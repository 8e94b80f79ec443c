package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRecordSet_InfersKinds(t *testing.T) {
	rs := NewRecordSet(time.Time{},
		[]Column{{Name: "Kode Efek"}, {Name: "Perubahan"}, {Name: "Catatan"}, {Name: "Status", Kind: ColumnText}},
		[]Record{
			{"Kode Efek": "AAA", "Perubahan": 10, "Catatan": nil, "Status": 1},
			{"Kode Efek": "BBB", "Perubahan": json.Number("2.5")},
			{"Kode Efek": "CCC", "Perubahan": math.NaN()},
		})

	want := []Column{
		{Name: "Kode Efek", Kind: ColumnText},
		{Name: "Perubahan", Kind: ColumnNumeric},
		{Name: "Catatan", Kind: ColumnText},
		{Name: "Status", Kind: ColumnText},
	}
	assert.Equal(t, want, rs.Columns)
	assert.Equal(t, 3, rs.Len())
}

func TestNewRecordSet_AppendsUndeclaredColumnsInNameOrder(t *testing.T) {
	rs := NewRecordSet(time.Time{}, []Column{{Name: "b"}, {Name: "b"}, {Name: ""}}, []Record{
		{"b": "x", "z": 1},
		{"a": "y"},
	})

	var names []string
	for _, c := range rs.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"b", "a", "z"}, names)
	assert.True(t, rs.HasColumn("z"))
	assert.False(t, rs.HasColumn("missing"))
}

func TestRecordSet_NilSafe(t *testing.T) {
	var rs *RecordSet
	assert.Equal(t, 0, rs.Len())
	assert.False(t, rs.HasColumn("No"))
}

func TestRecord_Get(t *testing.T) {
	rec := Record{"a": 1, "b": nil}

	v, ok := rec.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = rec.Get("b")
	assert.False(t, ok)
	_, ok = rec.Get("c")
	assert.False(t, ok)
}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{7, 7, true},
		{uint16(9), 9, true},
		{3.0, 3, true},
		{3.5, 0, false},
		{json.Number("12"), 12, true},
		{json.Number("12.0"), 12, true},
		{math.Inf(1), 0, false},
		{1e300, 0, false},
		{"7", 0, false},
	}
	for _, c := range cases {
		got, ok := ToInt(c.in)
		assert.Equal(t, c.ok, ok, "ToInt(%v)", c.in)
		assert.Equal(t, c.want, got, "ToInt(%v)", c.in)
	}
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(math.NaN()))
	assert.False(t, IsMissing(0))
	assert.False(t, IsMissing(""))
}

func TestPlainString(t *testing.T) {
	assert.Equal(t, "", PlainString(nil))
	assert.Equal(t, "abc", PlainString("abc"))
	assert.Equal(t, "1.5", PlainString(1.5))
	assert.Equal(t, "100", PlainString(100.0))
	assert.Equal(t, "007", PlainString(json.Number("007")))
	assert.Equal(t, "42", PlainString(42))
}

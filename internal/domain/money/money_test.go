package money

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulQty(t *testing.T) {
	m := New(199, "USD")
	assert.Equal(t, int64(597), m.MulQty(3).Value)
	assert.Equal(t, "USD", m.MulQty(3).Currency)
}

func TestAdd(t *testing.T) {
	total := New(597, "USD").Add(New(501, "USD"))
	assert.Equal(t, int64(1098), total.Value)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		m    Money
		want string
	}{
		{"usd cents", New(1098, "USD"), "$10.98"},
		{"usd zero", New(0, "USD"), "$0.00"},
		{"usd sub-dollar", New(5, "USD"), "$0.05"},
		{"eur", New(250, "EUR"), "€2.50"},
		{"jpy no minor units", New(1200, "JPY"), "¥1200"},
		{"unknown currency", New(150, "XTS"), "XTS 1.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Format())
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	var e jx.Encoder
	New(1098, "USD").Encode(&e)

	got, err := Decode(jx.DecodeBytes(e.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, New(1098, "USD"), got)
}

func TestDecodeMissingField(t *testing.T) {
	_, err := Decode(jx.DecodeStr(`{"value": 100}`))
	require.Error(t, err)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(jx.DecodeStr(`[1,2,3]`))
	require.Error(t, err)
}

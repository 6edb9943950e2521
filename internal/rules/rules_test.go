package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type color string

func TestWords(t *testing.T) {
	re := Words("EFT", "şube", "bill payment")

	tests := []struct {
		text string
		want bool
	}{
		{"EFT gönderim", true},
		{"eft", true},
		{"GEFTA", false},
		{"Şube işlemi", true},
		{"ŞUBE", true},
		{"Bill   Payment Other", true},
		{"billing", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, re.MatchString(tt.text), "Words match %q", tt.text)
	}
}

func TestStems(t *testing.T) {
	re := Stems("fatura", "komisyon")
	assert.True(t, re.MatchString("Elektrik faturası"))
	assert.True(t, re.MatchString("EFT komisyonu"))
	assert.False(t, re.MatchString("prefatura"))
}

func TestFirstAndAll(t *testing.T) {
	table := []Rule[color]{
		{Tag: "red", Pattern: Words("red", "crimson")},
		{Tag: "blue", Pattern: Words("blue")},
		{Tag: "red", Pattern: Words("scarlet")},
	}

	assert.Equal(t, color("blue"), First(table, "blue and scarlet", "none"))
	assert.Equal(t, color("red"), First(table, "crimson blue", "none"))
	assert.Equal(t, color("none"), First(table, "green", "none"))

	assert.Equal(t, []color{"red", "blue"}, All(table, "scarlet blue crimson"))
	assert.Nil(t, All(table, "green"))
}

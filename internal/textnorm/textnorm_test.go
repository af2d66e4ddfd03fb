package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and lowers", "  Hola Mundo  ", "hola mundo"},
		{"strips accents", "Ingeniería Mecánica", "ingenieria mecanica"},
		{"folds enye", "Año", "ano"},
		{"keeps punctuation", "¿Qué es?", "¿que es?"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Sistemas", Capitalize("sistemas"))
	assert.Equal(t, "Eléctrica", Capitalize("eLÉCTRICA"))
	assert.Equal(t, "", Capitalize(""))
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalogue_UTF8(t *testing.T) {
	raw := []byte("name;category;brand;unit_price;quantity;batch_number;expiration_date\n" +
		"Paracetamol 500mg;Analgesic;Genfar;2,50;100;L-01;2030-06-30\n" +
		"Ibuprofeno 400mg;Antiinflamatorio;MK;4.00;;;\n")

	rows, err := parseCatalogue(raw)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Paracetamol 500mg", rows[0].Product.Name)
	assert.Equal(t, "2.5", rows[0].Product.UnitPrice.String())
	assert.Equal(t, int64(100), rows[0].Quantity)
	assert.Equal(t, "L-01", rows[0].Batch)
	require.NotNil(t, rows[0].Expiration)
	assert.Equal(t, "2030-06-30", rows[0].Expiration.Format("2006-01-02"))

	assert.Equal(t, int64(0), rows[1].Quantity, "sin cantidad no hay ingreso de stock")
	assert.Nil(t, rows[1].Expiration)
}

func TestParseCatalogue_ISO88591(t *testing.T) {
	utf := "name;category;brand;unit_price\nJarabe para la tos;Antitusígeno;Tecnoquímicas;12.90\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := parseCatalogue([]byte(latin1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Antitusígeno", rows[0].Product.Category)
	assert.Equal(t, "Tecnoquímicas", rows[0].Product.Brand)
}

func TestParseCatalogue_Errores(t *testing.T) {
	cases := map[string]string{
		"precio inválido":   "h\nA;B;C;abc\n",
		"columnas faltan":   "h\nA;B\n",
		"nombre vacío":      "h\n;B;C;1\n",
		"cantidad inválida": "h\nA;B;C;1;muchas\n",
		"fecha inválida":    "h\nA;B;C;1;5;L;30/06/2030\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalogue([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseCatalogue_Vacio(t *testing.T) {
	rows, err := parseCatalogue(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

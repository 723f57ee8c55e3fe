package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/contable/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Código;Descripción;Precio\nA1;Café;12,50\nA2;Ñame;3,00\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// ó = 0xF3, ñ = 0xF1
	latin1 := []byte{'C', 0xF3, 'd', 'i', 'g', 'o', ';', 'A', 0xF1, 'o', '\n'}
	assert.Equal(t, "Código;Año\n", readAll(t, latin1))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Código;Precio\n")...)
	assert.Equal(t, "Código;Precio\n", readAll(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Descripción;IVA\n"))
	require.NoError(t, err)

	assert.Equal(t, "Descripción;IVA\n", readAll(t, encoded))
}

func TestNewUTF8Reader_LongLatin1(t *testing.T) {
	var buf bytes.Buffer
	for range 200 {
		buf.WriteString("P-1;Jamón serrano;Azúcar morena;Niño;12,50\n")
	}

	encoded, err := charmap.Windows1252.NewEncoder().Bytes(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, buf.String(), readAll(t, encoded))
}

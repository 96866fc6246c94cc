package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestLerCatalogo_Latin1(t *testing.T) {
	utf := "nome;sigla_unidade;estoque_minimo\nMilho moído;SC;1.500,25\n\nNúcleo proteico;kg;\nUréia;;30\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	r := transform.NewReader(bytes.NewReader([]byte(latin1)), charmap.ISO8859_1.NewDecoder())
	linhas, err := lerCatalogo(r)
	require.NoError(t, err)
	require.Len(t, linhas, 3)

	assert.Equal(t, "Milho moído", linhas[0].Nome)
	assert.Equal(t, "SC", linhas[0].Sigla)
	assert.True(t, decimal.RequireFromString("1500.25").Equal(linhas[0].EstoqueMinimo))
	assert.Equal(t, "Núcleo proteico", linhas[1].Nome)
	assert.True(t, linhas[1].EstoqueMinimo.IsZero())
	assert.Equal(t, "Uréia", linhas[2].Nome)
	assert.Equal(t, "", linhas[2].Sigla)
	assert.True(t, decimal.NewFromInt(30).Equal(linhas[2].EstoqueMinimo))
}

func TestLerCatalogo_ValorInvalido(t *testing.T) {
	_, err := lerCatalogo(strings.NewReader("Milho;kg;muito\n"))
	assert.Error(t, err)
}

package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/confinamento-api/internal/domain/entity"
)

func TestBatida_PodeTransicionar(t *testing.T) {
	cases := []struct {
		origem, destino string
		ok              bool
	}{
		{entity.BatidaPreparando, entity.BatidaConcluida, true},
		{entity.BatidaPreparando, entity.BatidaCancelada, true},
		{entity.BatidaPreparando, entity.BatidaPreparando, false},
		{entity.BatidaConcluida, entity.BatidaCancelada, false},
		{entity.BatidaConcluida, entity.BatidaPreparando, false},
		{entity.BatidaCancelada, entity.BatidaConcluida, false},
	}
	for _, c := range cases {
		b := &entity.Batida{Status: c.origem}
		assert.Equal(t, c.ok, b.PodeTransicionar(c.destino), "%s -> %s", c.origem, c.destino)
	}
}

func TestBatida_PodeExcluir(t *testing.T) {
	assert.True(t, (&entity.Batida{Status: entity.BatidaPreparando}).PodeExcluir())
	assert.False(t, (&entity.Batida{Status: entity.BatidaConcluida}).PodeExcluir())
	assert.False(t, (&entity.Batida{Status: entity.BatidaCancelada}).PodeExcluir())
}

func TestStatusValido(t *testing.T) {
	assert.True(t, entity.StatusValido("CONCLUIDA"))
	assert.False(t, entity.StatusValido("concluida"))
	assert.False(t, entity.StatusValido(""))
}

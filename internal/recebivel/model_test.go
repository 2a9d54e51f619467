package recebivel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var hoje = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func TestStatusDerivadoPendente(t *testing.T) {
	venc := hoje.AddDate(0, 0, 10)
	assert.Equal(t, StatusPendente, StatusDerivado(venc, nil, hoje))
}

func TestStatusDerivadoVenceHoje(t *testing.T) {
	// Vencimento no próprio dia ainda é pendente, não atrasada.
	venc := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusPendente, StatusDerivado(venc, nil, hoje))
}

func TestStatusDerivadoAtrasada(t *testing.T) {
	venc := hoje.AddDate(0, 0, -1)
	assert.Equal(t, StatusAtrasada, StatusDerivado(venc, nil, hoje))
}

func TestStatusDerivadoRecebidaIgnoraVencimento(t *testing.T) {
	// Recebida vale mesmo com vencimento no passado distante.
	venc := hoje.AddDate(-1, 0, 0)
	recebido := hoje
	assert.Equal(t, StatusRecebida, StatusDerivado(venc, &recebido, hoje))
}

func TestStatusMudaComODia(t *testing.T) {
	venc := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	parcela := Recebivel{DataVencimento: venc}

	assert.Equal(t, StatusPendente, parcela.Status(hoje))
	assert.Equal(t, StatusAtrasada, parcela.Status(hoje.AddDate(0, 0, 1)))
}

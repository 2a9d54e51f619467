package recebivel

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStore é um Store em memória indexado pela chave composta.
type stubStore struct {
	parcelas   map[[2]int]*Recebivel
	falharUpdt bool
}

func chave(vendaID uint, n int) [2]int { return [2]int{int(vendaID), n} }

func newStubStore(parcelas ...*Recebivel) *stubStore {
	s := &stubStore{parcelas: make(map[[2]int]*Recebivel)}
	for _, p := range parcelas {
		s.parcelas[chave(p.VendaID, p.NumeroParcela)] = p
	}
	return s
}

func (s *stubStore) FindByChave(vendaID uint, n int) (*Recebivel, error) {
	p, ok := s.parcelas[chave(vendaID, n)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (s *stubStore) AtualizarRecebimento(vendaID uint, n int, recebidoEm *time.Time) error {
	if s.falharUpdt {
		return errors.New("banco indisponível")
	}
	p, ok := s.parcelas[chave(vendaID, n)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.RecebidoEm = recebidoEm
	return nil
}

func novoService(store Store) *Service {
	s := NewService(store)
	s.agora = func() time.Time { return hoje }
	return s
}

func parcelaPendente(vendaID uint, n int) *Recebivel {
	return &Recebivel{
		VendaID:          vendaID,
		NumeroParcela:    n,
		DataVencimento:   hoje.AddDate(0, 0, 30),
		ValorParcela:     dec("1000"),
		ComissaoEsperada: dec("50"),
		TotalParcelas:    3,
	}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestMarcarRecebida(t *testing.T) {
	store := newStubStore(parcelaPendente(1, 1))
	svc := novoService(store)

	atualizada, err := svc.MarcarRecebida(1, 1, dec("50"), nil)
	require.NoError(t, err)
	require.NotNil(t, atualizada.RecebidoEm)
	assert.Equal(t, hoje, *atualizada.RecebidoEm)
	assert.Equal(t, StatusRecebida, atualizada.Status(hoje))
}

func TestMarcarRecebidaIdempotente(t *testing.T) {
	store := newStubStore(parcelaPendente(1, 1))
	svc := novoService(store)

	primeira, err := svc.MarcarRecebida(1, 1, dec("50"), nil)
	require.NoError(t, err)

	// Segunda confirmação: sucesso sem efeito, mesmo estado final.
	outraData := hoje.AddDate(0, 0, 5)
	segunda, err := svc.MarcarRecebida(1, 1, dec("50"), &outraData)
	require.NoError(t, err)
	assert.Equal(t, *primeira.RecebidoEm, *segunda.RecebidoEm)
}

func TestMarcarRecebidaNaoRecalculaComissao(t *testing.T) {
	store := newStubStore(parcelaPendente(1, 1))
	svc := novoService(store)

	// O valor informado diverge da comissão esperada gravada; a expectativa
	// armazenada não muda.
	atualizada, err := svc.MarcarRecebida(1, 1, dec("99.99"), nil)
	require.NoError(t, err)
	assert.True(t, atualizada.ComissaoEsperada.Equal(dec("50")))
}

func TestMarcarRecebidaInexistente(t *testing.T) {
	svc := novoService(newStubStore())

	_, err := svc.MarcarRecebida(1, 7, dec("50"), nil)
	assert.ErrorIs(t, err, ErrNaoEncontrada)
}

func TestDesfazerRecebimento(t *testing.T) {
	store := newStubStore(parcelaPendente(1, 1))
	svc := novoService(store)

	_, err := svc.MarcarRecebida(1, 1, dec("50"), nil)
	require.NoError(t, err)

	desfeita, err := svc.DesfazerRecebimento(1, 1)
	require.NoError(t, err)
	assert.Nil(t, desfeita.RecebidoEm)
	assert.Equal(t, StatusPendente, desfeita.Status(hoje))
}

func TestDesfazerJaNaoRecebida(t *testing.T) {
	store := newStubStore(parcelaPendente(1, 1))
	svc := novoService(store)

	desfeita, err := svc.DesfazerRecebimento(1, 1)
	require.NoError(t, err)
	assert.Nil(t, desfeita.RecebidoEm)
}

func TestConciliarLoteSegueAposFalha(t *testing.T) {
	store := newStubStore(parcelaPendente(1, 1), parcelaPendente(1, 3))
	svc := novoService(store)

	resultado := svc.ConciliarLote([]ItemConciliacao{
		{VendaID: 1, NumeroParcela: 1, Valor: dec("50")},
		{VendaID: 1, NumeroParcela: 2, Valor: dec("50")}, // não existe
		{VendaID: 1, NumeroParcela: 3, Valor: dec("50")},
	}, nil)

	assert.Equal(t, 2, resultado.Confirmadas)
	assert.Equal(t, 1, resultado.Falhas)
	require.Len(t, resultado.Erros, 1)

	// A parcela 3 foi confirmada mesmo com a falha da 2 no meio do lote.
	p3, err := store.FindByChave(1, 3)
	require.NoError(t, err)
	assert.NotNil(t, p3.RecebidoEm)
}

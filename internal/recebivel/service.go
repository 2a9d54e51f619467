// internal/recebivel/service.go
package recebivel

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNaoEncontrada indica que a parcela referida não existe.
var ErrNaoEncontrada = errors.New("recebível não encontrado")

// Store é o contrato de persistência que o serviço consome; o Repository
// gorm implementa, e os testes usam um stub em memória.
type Store interface {
	FindByChave(vendaID uint, numeroParcela int) (*Recebivel, error)
	AtualizarRecebimento(vendaID uint, numeroParcela int, recebidoEm *time.Time) error
}

// Service implementa a máquina de estados do recebível: pendente e atrasada
// são visões derivadas; "recebida" é o único estado persistido, via RecebidoEm.
type Service struct {
	store Store
	agora func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, agora: time.Now}
}

// MarcarRecebida confirma o recebimento de uma parcela.
//
// A operação é idempotente: confirmar uma parcela já recebida é sucesso sem
// efeito, nunca erro: o duplo clique de confirmação na UI não pode falhar.
// O valor informado serve apenas para totalizações do chamador; a comissão
// esperada gravada NÃO é recalculada na confirmação.
func (s *Service) MarcarRecebida(vendaID uint, numeroParcela int, valor decimal.Decimal, data *time.Time) (*Recebivel, error) {
	parcela, err := s.store.FindByChave(vendaID, numeroParcela)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrada
		}
		return nil, err
	}

	if parcela.RecebidoEm != nil {
		return parcela, nil
	}

	recebidoEm := s.agora()
	if data != nil {
		recebidoEm = *data
	}
	if err := s.store.AtualizarRecebimento(vendaID, numeroParcela, &recebidoEm); err != nil {
		return nil, err
	}
	parcela.RecebidoEm = &recebidoEm
	return parcela, nil
}

// DesfazerRecebimento reverte a confirmação, limpando a data de recebimento.
// Desfazer uma parcela já não recebida também é sucesso sem efeito.
func (s *Service) DesfazerRecebimento(vendaID uint, numeroParcela int) (*Recebivel, error) {
	parcela, err := s.store.FindByChave(vendaID, numeroParcela)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrada
		}
		return nil, err
	}

	if parcela.RecebidoEm == nil {
		return parcela, nil
	}

	if err := s.store.AtualizarRecebimento(vendaID, numeroParcela, nil); err != nil {
		return nil, err
	}
	parcela.RecebidoEm = nil
	return parcela, nil
}

// ItemConciliacao identifica uma parcela a confirmar em lote.
type ItemConciliacao struct {
	VendaID       uint            `json:"vendaId"`
	NumeroParcela int             `json:"numeroParcela"`
	Valor         decimal.Decimal `json:"valor"`
}

// ResultadoConciliacao agrega o desfecho item a item do lote.
type ResultadoConciliacao struct {
	Confirmadas int      `json:"confirmadas"`
	Falhas      int      `json:"falhas"`
	Erros       []string `json:"erros,omitempty"`
}

// ConciliarLote aplica MarcarRecebida a cada item, seguindo em frente após
// falhas individuais; um item com problema não bloqueia nem desfaz os demais.
func (s *Service) ConciliarLote(itens []ItemConciliacao, data *time.Time) ResultadoConciliacao {
	var resultado ResultadoConciliacao
	for _, item := range itens {
		if _, err := s.MarcarRecebida(item.VendaID, item.NumeroParcela, item.Valor, data); err != nil {
			resultado.Falhas++
			resultado.Erros = append(resultado.Erros,
				fmt.Sprintf("venda %d parcela %d: %v", item.VendaID, item.NumeroParcela, err))
			continue
		}
		resultado.Confirmadas++
	}
	return resultado
}

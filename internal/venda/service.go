// internal/venda/service.go
package venda

import (
	"errors"
	"fmt"
	"time"

	"github.com/comissio/api-representante/internal/fornecedor"
	"github.com/comissio/api-representante/internal/parcelamento"
	"github.com/comissio/api-representante/internal/produtos"
	"github.com/comissio/api-representante/internal/regracomissao"
	"github.com/shopspring/decimal"
)

var cem = decimal.NewFromInt(100)

// ErrValorInvalido indica valor bruto não positivo na criação da venda.
var ErrValorInvalido = errors.New("valor bruto da venda deve ser positivo")

// Persistidor é o contrato de gravação que o serviço consome.
type Persistidor interface {
	Create(v *Venda) error
}

// BuscadorFornecedor resolve a pasta e sua regra padrão.
type BuscadorFornecedor interface {
	FindByID(id uint) (*fornecedor.Fornecedor, error)
}

// BuscadorProduto resolve o produto vendido e seu eventual override.
type BuscadorProduto interface {
	FindByID(id uint) (*produtos.Produto, error)
}

// Service cria vendas resolvendo a taxa de comissão e gerando o cronograma
// de recebíveis na mesma operação.
type Service struct {
	repo         Persistidor
	fornecedores BuscadorFornecedor
	produtos     BuscadorProduto
}

func NewService(repo Persistidor, fornecedores BuscadorFornecedor, prods BuscadorProduto) *Service {
	return &Service{repo: repo, fornecedores: fornecedores, produtos: prods}
}

// NovaVenda é o insumo da criação manual de uma venda.
type NovaVenda struct {
	OrganizacaoID     uint
	VendedorID        uint
	FornecedorID      *uint
	ClienteID         *uint
	ProdutoID         *uint
	Titulo            string
	ValorBruto        decimal.Decimal
	TaxaImposto       decimal.Decimal
	PercentualManual  *decimal.Decimal
	DataVenda         time.Time
	CondicaoPagamento *string
}

// Criar valida, resolve a comissão, gera as parcelas e grava tudo de uma
// vez: a venda e seus recebíveis existem juntos ou não existem.
func (s *Service) Criar(in NovaVenda) (*Venda, error) {
	if !in.ValorBruto.IsPositive() {
		return nil, ErrValorInvalido
	}

	liquido, err := regracomissao.ValorLiquido(in.ValorBruto, in.TaxaImposto)
	if err != nil {
		return nil, err
	}

	var produto *produtos.Produto
	if in.ProdutoID != nil {
		if produto, err = s.produtos.FindByID(*in.ProdutoID); err != nil {
			return nil, fmt.Errorf("produto da venda: %w", err)
		}
	}

	var regraFornecedor *regracomissao.RegraComissao
	if in.FornecedorID != nil {
		f, err := s.fornecedores.FindByID(*in.FornecedorID)
		if err != nil {
			return nil, fmt.Errorf("fornecedor da venda: %w", err)
		}
		regraFornecedor = f.RegraComissao
	}

	taxa, valorComissao, err := ResolverComissao(in.PercentualManual, produto, regraFornecedor, liquido)
	if err != nil {
		return nil, err
	}

	v := &Venda{
		OrganizacaoID:     in.OrganizacaoID,
		VendedorID:        in.VendedorID,
		FornecedorID:      in.FornecedorID,
		ClienteID:         in.ClienteID,
		Titulo:            in.Titulo,
		ValorBruto:        in.ValorBruto,
		TaxaImposto:       in.TaxaImposto,
		TaxaComissao:      taxa,
		ValorComissao:     valorComissao,
		DataVenda:         in.DataVenda,
		CondicaoPagamento: in.CondicaoPagamento,
	}

	for _, p := range parcelamento.Gerar(0, v.ValorBruto, v.ValorComissao, v.DataVenda, v.CondicaoPagamento) {
		v.Recebiveis = append(v.Recebiveis, *p)
	}

	if err := s.repo.Create(v); err != nil {
		return nil, err
	}
	return v, nil
}

// ResolverComissao aplica a hierarquia de resolução da taxa, como checagem
// ordenada explícita:
//  1. percentual informado manualmente na venda;
//  2. override do produto vendido;
//  3. regra padrão do fornecedor (fixa ou escalonada, sobre o líquido);
//  4. nenhuma regra => comissão zero.
//
// Retorna a taxa efetiva gravada na venda e o valor da comissão.
func ResolverComissao(manual *decimal.Decimal, produto *produtos.Produto, regra *regracomissao.RegraComissao, liquido decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if manual != nil {
		if manual.IsNegative() {
			return decimal.Zero, decimal.Zero, regracomissao.ErrValorNegativo
		}
		return *manual, liquido.Mul(*manual).Div(cem).Round(2), nil
	}

	if produto != nil && produto.PercentualComissao != nil {
		pct := *produto.PercentualComissao
		return pct, liquido.Mul(pct).Div(cem).Round(2), nil
	}

	if regra != nil && regra.Ativa {
		valor, err := regracomissao.Avaliar(regra, liquido)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		taxa := decimal.Zero
		if liquido.IsPositive() {
			taxa = valor.Mul(cem).Div(liquido).Round(4)
		}
		return taxa, valor, nil
	}

	return decimal.Zero, decimal.Zero, nil
}

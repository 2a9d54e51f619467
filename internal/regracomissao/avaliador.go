package regracomissao

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var cem = decimal.NewFromInt(100)

// ErrValorNegativo é retornado quando o valor base informado é negativo.
var ErrValorNegativo = errors.New("valor base não pode ser negativo")

// Avaliar calcula o valor da comissão de uma regra sobre um valor base.
// O valor base deve ser o valor LÍQUIDO da venda (bruto menos imposto);
// a dedução de imposto é responsabilidade do chamador.
//
// Regra fixa: base * percentual / 100.
// Regra escalonada: soma da contribuição de cada faixa, onde cada faixa
// tributa apenas a fatia do valor base contida em [mínimo, máximo).
// Cálculo progressivo, não uma consulta pela faixa final.
func Avaliar(regra *RegraComissao, base decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, ErrValorNegativo
	}
	switch regra.Tipo {
	case TipoFixa:
		return base.Mul(regra.PercentualComissao).Div(cem).Round(2), nil
	case TipoEscalonada:
		total := decimal.Zero
		for _, f := range regra.Faixas {
			teto := base
			if f.Maximo != nil && f.Maximo.LessThan(teto) {
				teto = *f.Maximo
			}
			if !teto.GreaterThan(f.Minimo) {
				continue
			}
			fatia := teto.Sub(f.Minimo)
			total = total.Add(fatia.Mul(f.Percentual).Div(cem))
		}
		return total.Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrTipoInvalido, regra.Tipo)
	}
}

// ValorLiquido aplica a dedução de imposto sobre o valor bruto:
// líquido = bruto * (1 - taxa/100). Aplicada uma única vez por venda,
// antes de qualquer avaliação de comissão.
func ValorLiquido(bruto, taxaImposto decimal.Decimal) (decimal.Decimal, error) {
	if bruto.IsNegative() {
		return decimal.Zero, ErrValorNegativo
	}
	if taxaImposto.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: taxa de imposto negativa", ErrValorNegativo)
	}
	return bruto.Mul(cem.Sub(taxaImposto)).Div(cem).Round(2), nil
}

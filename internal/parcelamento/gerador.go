// internal/parcelamento/gerador.go
package parcelamento

import (
	"strconv"
	"strings"
	"time"

	"github.com/comissio/api-representante/internal/recebivel"
	"github.com/shopspring/decimal"
)

// ParseCondicao interpreta a condição de pagamento de uma venda como uma
// lista de deslocamentos em dias a partir da data da venda.
//
// Gramática: vazia ou nula => [0] (à vista, vence na data da venda);
// lista separada por barras, ex. "30/60/90" => [30, 60, 90]. Tokens não
// numéricos são descartados; se todos forem inválidos, volta para [0].
//
// Os deslocamentos são usados na ordem em que aparecem; a condição é
// esperada já crescente e o gerador não reordena.
func ParseCondicao(condicao *string) []int {
	if condicao == nil || strings.TrimSpace(*condicao) == "" {
		return []int{0}
	}

	var offsets []int
	for _, token := range strings.Split(*condicao, "/") {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || n < 0 {
			continue
		}
		offsets = append(offsets, n)
	}
	if len(offsets) == 0 {
		return []int{0}
	}
	return offsets
}

// Gerar monta as parcelas de uma venda: uma por deslocamento, numeradas a
// partir de 1, cada uma com vencimento em dataVenda + offset dias e com a
// divisão IGUAL do valor bruto e da comissão.
//
// A função é pura e independente de relógio: só calcula vencimentos, nunca
// compara com "hoje". A sobra de arredondamento da divisão não é
// redistribuída; a deriva de centavos na soma é comportamento conhecido.
func Gerar(vendaID uint, valorBruto, valorComissao decimal.Decimal, dataVenda time.Time, condicao *string) []*recebivel.Recebivel {
	offsets := ParseCondicao(condicao)
	total := len(offsets)
	qtd := decimal.NewFromInt(int64(total))

	valorParcela := valorBruto.Div(qtd).Round(2)
	comissaoParcela := valorComissao.Div(qtd).Round(2)

	parcelas := make([]*recebivel.Recebivel, 0, total)
	for i, offset := range offsets {
		parcelas = append(parcelas, &recebivel.Recebivel{
			VendaID:          vendaID,
			NumeroParcela:    i + 1,
			DataVencimento:   dataVenda.AddDate(0, 0, offset),
			ValorParcela:     valorParcela,
			ComissaoEsperada: comissaoParcela,
			TotalParcelas:    total,
		})
	}
	return parcelas
}

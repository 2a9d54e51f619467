package parcelamento

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func strPtr(s string) *string { return &s }

var dataVenda = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseCondicao(t *testing.T) {
	casos := []struct {
		nome     string
		condicao *string
		quer     []int
	}{
		{"nula é à vista", nil, []int{0}},
		{"vazia é à vista", strPtr(""), []int{0}},
		{"só espaços é à vista", strPtr("   "), []int{0}},
		{"parcelado simples", strPtr("30/60/90"), []int{30, 60, 90}},
		{"tokens inválidos descartados", strPtr("30/abc/90"), []int{30, 90}},
		{"tudo inválido volta para à vista", strPtr("abc/xyz"), []int{0}},
		{"espaços em volta dos tokens", strPtr(" 30 / 60 "), []int{30, 60}},
		{"ordem preservada sem reordenar", strPtr("90/30"), []int{90, 30}},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.quer, ParseCondicao(c.condicao))
		})
	}
}

func TestGerarAVista(t *testing.T) {
	parcelas := Gerar(1, dec("9000"), dec("450"), dataVenda, nil)

	require.Len(t, parcelas, 1)
	p := parcelas[0]
	assert.Equal(t, 1, p.NumeroParcela)
	assert.Equal(t, 1, p.TotalParcelas)
	assert.True(t, p.DataVencimento.Equal(dataVenda))
	assert.True(t, p.ValorParcela.Equal(dec("9000")))
	assert.True(t, p.ComissaoEsperada.Equal(dec("450")))
}

func TestGerarParcelado(t *testing.T) {
	parcelas := Gerar(1, dec("9000"), dec("450"), dataVenda, strPtr("30/60/90"))

	require.Len(t, parcelas, 3)

	// 30/60/90 dias corridos a partir de 2024-01-01. 2024 é bissexto:
	// fevereiro tem 29 dias, então 60 dias caem em 1º de março e 90 em 31.
	vencimentos := []time.Time{
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, p := range parcelas {
		assert.Equal(t, i+1, p.NumeroParcela)
		assert.Equal(t, 3, p.TotalParcelas)
		assert.True(t, p.DataVencimento.Equal(vencimentos[i]),
			"parcela %d: esperava %s, veio %s", i+1, vencimentos[i], p.DataVencimento)
		assert.True(t, p.ValorParcela.Equal(dec("3000")))
		assert.True(t, p.ComissaoEsperada.Equal(dec("150")))
	}
}

func TestGerarDerivaDeArredondamentoNaoCompensada(t *testing.T) {
	// 100 / 3 = 33.33 por parcela; a soma dá 99.99, e a última parcela NÃO
	// absorve o centavo restante.
	parcelas := Gerar(1, dec("100"), dec("10"), dataVenda, strPtr("0/30/60"))

	require.Len(t, parcelas, 3)
	soma := decimal.Zero
	for _, p := range parcelas {
		assert.True(t, p.ValorParcela.Equal(dec("33.33")))
		soma = soma.Add(p.ValorParcela)
	}
	assert.True(t, soma.Equal(dec("99.99")))
}

func TestGerarNaoReordenaOffsets(t *testing.T) {
	// Condição fora de ordem gera parcelas na ordem recebida; a numeração
	// segue a posição, não o vencimento.
	parcelas := Gerar(1, dec("200"), dec("20"), dataVenda, strPtr("60/30"))

	require.Len(t, parcelas, 2)
	assert.True(t, parcelas[0].DataVencimento.After(parcelas[1].DataVencimento))
	assert.Equal(t, 1, parcelas[0].NumeroParcela)
}

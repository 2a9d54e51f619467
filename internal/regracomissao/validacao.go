package regracomissao

import (
	"errors"
	"fmt"
)

var (
	ErrTipoInvalido   = errors.New("tipo de regra inválido")
	ErrFaixasInvalida = errors.New("faixas da regra escalonada são inválidas")
)

// ValidarRegra verifica os invariantes de uma regra antes da gravação.
// Regras fixas exigem percentuais não negativos; regras escalonadas exigem
// faixas contíguas, sem sobreposição, começando em zero e terminando em uma
// faixa aberta.
func ValidarRegra(regra *RegraComissao) error {
	switch regra.Tipo {
	case TipoFixa:
		if regra.PercentualComissao.IsNegative() {
			return fmt.Errorf("%w: percentual de comissão negativo", ErrFaixasInvalida)
		}
		if regra.PercentualImposto.IsNegative() {
			return fmt.Errorf("%w: percentual de imposto negativo", ErrFaixasInvalida)
		}
		return nil
	case TipoEscalonada:
		return ValidarFaixas(regra.Faixas)
	default:
		return fmt.Errorf("%w: %q", ErrTipoInvalido, regra.Tipo)
	}
}

// ValidarFaixas aplica os invariantes estruturais das faixas:
//   - pelo menos uma faixa;
//   - a primeira começa em 0;
//   - somente a última tem máximo nulo;
//   - o máximo de cada faixa é igual ao mínimo da seguinte.
func ValidarFaixas(faixas []FaixaComissao) error {
	if len(faixas) == 0 {
		return fmt.Errorf("%w: regra escalonada sem faixas", ErrFaixasInvalida)
	}
	if !faixas[0].Minimo.IsZero() {
		return fmt.Errorf("%w: a primeira faixa deve começar em 0", ErrFaixasInvalida)
	}
	for i, f := range faixas {
		if f.Percentual.IsNegative() {
			return fmt.Errorf("%w: percentual negativo na faixa %d", ErrFaixasInvalida, i+1)
		}
		ultima := i == len(faixas)-1
		if ultima {
			if f.Maximo != nil {
				return fmt.Errorf("%w: a última faixa deve ser aberta (sem máximo)", ErrFaixasInvalida)
			}
			continue
		}
		if f.Maximo == nil {
			return fmt.Errorf("%w: somente a última faixa pode ser aberta", ErrFaixasInvalida)
		}
		if !f.Maximo.GreaterThan(f.Minimo) {
			return fmt.Errorf("%w: máximo da faixa %d deve ser maior que o mínimo", ErrFaixasInvalida, i+1)
		}
		if !f.Maximo.Equal(faixas[i+1].Minimo) {
			return fmt.Errorf("%w: faixa %d não é contígua com a seguinte", ErrFaixasInvalida, i+1)
		}
	}
	return nil
}

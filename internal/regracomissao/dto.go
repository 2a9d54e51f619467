// internal/regracomissao/dto.go
package regracomissao

import "github.com/shopspring/decimal"

type FaixaDTO struct {
	Minimo     decimal.Decimal  `json:"minimo"`
	Maximo     *decimal.Decimal `json:"maximo"`
	Percentual decimal.Decimal  `json:"percentual"`
}

type CreateRegraDTO struct {
	Nome               string          `json:"nome"`
	EscopoDono         string          `json:"escopoDono" validate:"required,oneof=organizacao pessoal"`
	Tipo               string          `json:"tipo" validate:"required,oneof=fixa escalonada"`
	Padrao             bool            `json:"padrao"`
	PercentualComissao decimal.Decimal `json:"percentualComissao"`
	PercentualImposto  decimal.Decimal `json:"percentualImposto"`
	Faixas             []FaixaDTO      `json:"faixas"`
}

// ToModel converte o DTO em modelo, numerando as faixas na ordem recebida.
func (d *CreateRegraDTO) ToModel(donoID uint) *RegraComissao {
	regra := &RegraComissao{
		Nome:               d.Nome,
		EscopoDono:         d.EscopoDono,
		DonoID:             donoID,
		Tipo:               d.Tipo,
		Padrao:             d.Padrao,
		Ativa:              true,
		PercentualComissao: d.PercentualComissao,
		PercentualImposto:  d.PercentualImposto,
	}
	for i, f := range d.Faixas {
		regra.Faixas = append(regra.Faixas, FaixaComissao{
			Minimo:     f.Minimo,
			Maximo:     f.Maximo,
			Percentual: f.Percentual,
			Ordem:      i + 1,
		})
	}
	return regra
}

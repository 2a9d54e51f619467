package regracomissao

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de regra suportados.
const (
	TipoFixa       = "fixa"
	TipoEscalonada = "escalonada"
)

// Escopos de dono de uma regra.
const (
	EscopoOrganizacao = "organizacao"
	EscopoPessoal     = "pessoal"
)

// RegraComissao define como a comissão de uma venda é calculada.
// Uma regra "fixa" aplica um percentual único sobre o valor líquido;
// uma regra "escalonada" aplica percentuais progressivos por faixa.
type RegraComissao struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EscopoDono string `gorm:"size:20;not null;index:idx_dono" json:"escopoDono"` // "organizacao" ou "pessoal"
	DonoID     uint   `gorm:"not null;index:idx_dono" json:"donoId"`
	Nome       string `gorm:"size:255" json:"nome"`
	Tipo       string `gorm:"size:20;not null" json:"tipo"`
	Padrao     bool   `gorm:"not null;default:false" json:"padrao"`
	Ativa      bool   `gorm:"not null;default:true" json:"ativa"`

	// Campos da regra fixa
	PercentualComissao decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"percentualComissao"`
	PercentualImposto  decimal.Decimal `gorm:"type:decimal(8,4);default:0" json:"percentualImposto"`

	// Faixas da regra escalonada, ordenadas por mínimo crescente
	Faixas []FaixaComissao `gorm:"foreignKey:RegraComissaoID;constraint:OnDelete:CASCADE" json:"faixas"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// FaixaComissao é uma faixa de uma regra escalonada. Maximo nulo indica a
// última faixa (aberta até o infinito).
type FaixaComissao struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	RegraComissaoID uint             `gorm:"not null;index" json:"regraComissaoId"`
	Minimo          decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"minimo"`
	Maximo          *decimal.Decimal `gorm:"type:decimal(14,2)" json:"maximo"`
	Percentual      decimal.Decimal  `gorm:"type:decimal(8,4);not null" json:"percentual"`
	Ordem           int              `gorm:"not null;default:0" json:"ordem"`
}

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&RegraComissao{}, &FaixaComissao{})
}

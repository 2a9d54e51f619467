package venda

import (
	"time"

	"github.com/comissio/api-representante/internal/recebivel"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venda é uma venda fechada de um representante. A taxa de comissão é
// resolvida NA CRIAÇÃO (hierarquia manual > produto > fornecedor > zero) e
// gravada; o valor da comissão derivado também é armazenado. IDExterno marca
// vendas importadas do CRM e é a única chave de deduplicação da importação.
type Venda struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	OrganizacaoID uint  `gorm:"not null;index" json:"organizacaoId"`
	VendedorID    uint  `gorm:"not null;index" json:"vendedorId"`
	FornecedorID  *uint `gorm:"index" json:"fornecedorId"`
	ClienteID     *uint `json:"clienteId"`

	Titulo            string          `gorm:"size:255" json:"titulo"`
	ValorBruto        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"valorBruto"`
	TaxaImposto       decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"taxaImposto"`
	TaxaComissao      decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"taxaComissao"`
	ValorComissao     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"valorComissao"`
	DataVenda         time.Time       `gorm:"not null" json:"dataVenda"`
	CondicaoPagamento *string         `gorm:"size:100" json:"condicaoPagamento"`
	IDExterno         *string         `gorm:"size:100;index" json:"idExterno"`

	// Parcelas geradas junto com a venda, atomicamente: ou existem todas,
	// ou nenhuma.
	Recebiveis []recebivel.Recebivel `gorm:"foreignKey:VendaID;constraint:OnDelete:CASCADE" json:"recebiveis"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Venda{})
}

// internal/produtos/model.go
package produtos

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Produto é um item vendável de um fornecedor. PercentualComissao, quando
// preenchido, sobrepõe a regra padrão do fornecedor no cálculo da venda.
type Produto struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	FornecedorID       uint             `gorm:"not null;index" json:"fornecedorId"`
	Nome               string           `gorm:"size:255;not null" json:"nome"`
	Ativo              bool             `gorm:"not null;default:true" json:"ativo"`
	PercentualComissao *decimal.Decimal `gorm:"type:decimal(8,4)" json:"percentualComissao"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Produto{})
}

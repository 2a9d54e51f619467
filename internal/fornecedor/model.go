package fornecedor

import (
	"time"

	"github.com/comissio/api-representante/internal/regracomissao"
	"gorm.io/gorm"
)

// Fornecedor é a "pasta" que o representante carrega: a empresa representada.
// Cada pasta pode apontar para sua regra de comissão padrão.
type Fornecedor struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OrganizacaoID uint   `gorm:"not null;index" json:"organizacaoId"`
	Nome          string `gorm:"size:255;not null" json:"nome"`
	CNPJ          string `gorm:"size:20" json:"cnpj"`
	Ativo         bool   `gorm:"not null;default:true" json:"ativo"`

	RegraComissaoID *uint                        `json:"regraComissaoId"`
	RegraComissao   *regracomissao.RegraComissao `gorm:"foreignKey:RegraComissaoID" json:"regraComissao,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Fornecedor{})
}

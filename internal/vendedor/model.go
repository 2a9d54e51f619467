package vendedor

import (
	"time"

	"gorm.io/gorm"
)

// Vendedor é um representante de vendas da organização. IDExterno guarda o
// identificador do usuário correspondente no CRM externo, quando vinculado.
type Vendedor struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrganizacaoID uint    `gorm:"not null;index" json:"organizacaoId"`
	Nome          string  `gorm:"size:255;not null" json:"nome"`
	Sobrenome     string  `gorm:"size:255" json:"sobrenome"`
	Email         string  `gorm:"size:255;uniqueIndex" json:"email"`
	Senha         string  `gorm:"size:255" json:"-"`
	Ativo         bool    `gorm:"not null;default:true" json:"ativo"`
	IDExterno     *string `gorm:"size:100;index" json:"idExterno"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Vendedor{})
}

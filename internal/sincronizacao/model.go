package sincronizacao

import (
	"time"

	"gorm.io/gorm"
)

// CredencialCRM guarda o checkpoint da integração de uma organização com o
// CRM externo: o par de tokens vigente e o instante da última sincronização.
// Só o orquestrador escreve aqui.
type CredencialCRM struct {
	OrganizacaoID       uint       `gorm:"primaryKey;autoIncrement:false" json:"organizacaoId"`
	AccessToken         string     `gorm:"size:2048;not null" json:"-"`
	RefreshToken        string     `gorm:"size:2048;not null" json:"-"`
	ExpiraEm            time.Time  `gorm:"not null" json:"expiraEm"`
	DominioAPI          string     `gorm:"size:255" json:"dominioApi"`
	UltimaSincronizacao *time.Time `json:"ultimaSincronizacao"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&CredencialCRM{})
}

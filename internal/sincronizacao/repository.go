// internal/sincronizacao/repository.go
package sincronizacao

import (
	"time"

	"gorm.io/gorm"
)

// Repository encapsula o acesso ao checkpoint de sincronização.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// FindByOrganizacao busca as credenciais da integração de uma organização.
func (r *Repository) FindByOrganizacao(orgID uint) (*CredencialCRM, error) {
	var cred CredencialCRM
	if err := r.DB.First(&cred, "organizacao_id = ?", orgID).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

// AtualizarTokens persiste o novo par de tokens antes de qualquer fetch.
func (r *Repository) AtualizarTokens(orgID uint, accessToken, refreshToken string, expiraEm time.Time, dominioAPI string) error {
	updates := map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expira_em":     expiraEm,
	}
	if dominioAPI != "" {
		updates["dominio_api"] = dominioAPI
	}
	return r.DB.Model(&CredencialCRM{}).
		Where("organizacao_id = ?", orgID).
		Updates(updates).Error
}

// RegistrarSincronizacao grava o checkpoint de fim de execução.
func (r *Repository) RegistrarSincronizacao(orgID uint, em time.Time) error {
	return r.DB.Model(&CredencialCRM{}).
		Where("organizacao_id = ?", orgID).
		Update("ultima_sincronizacao", &em).Error
}

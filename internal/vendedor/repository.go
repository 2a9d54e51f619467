// internal/vendedor/repository.go
package vendedor

import "gorm.io/gorm"

// Repository encapsula operações de banco para Vendedor.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// FindAtivosComIDExterno retorna o snapshot de vendedores ativos que têm
// vínculo com o CRM externo. É a única consulta que o matcher precisa; ela
// roda uma vez por sincronização, nunca uma vez por negócio.
func (r *Repository) FindAtivosComIDExterno(orgID uint) ([]Vendedor, error) {
	var list []Vendedor
	err := r.DB.
		Where("organizacao_id = ? AND ativo = ? AND id_externo IS NOT NULL", orgID, true).
		Find(&list).Error
	return list, err
}

// Create grava um novo vendedor.
func (r *Repository) Create(v *Vendedor) error {
	return r.DB.Create(v).Error
}

// ListByOrganizacao lista os vendedores da organização.
func (r *Repository) ListByOrganizacao(orgID uint) ([]Vendedor, error) {
	var list []Vendedor
	err := r.DB.Where("organizacao_id = ?", orgID).Order("nome").Find(&list).Error
	return list, err
}

// VincularIDExterno grava o vínculo do vendedor com o usuário do CRM.
func (r *Repository) VincularIDExterno(id uint, idExterno *string) error {
	res := r.DB.Model(&Vendedor{}).Where("id = ?", id).
		Update("id_externo", idExterno)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByEmail busca um vendedor pelo e-mail.
func (r *Repository) FindByEmail(email string) (*Vendedor, error) {
	var v Vendedor
	if err := r.DB.Where("email = ?", email).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByID busca um vendedor pelo ID.
func (r *Repository) FindByID(id uint) (*Vendedor, error) {
	var v Vendedor
	if err := r.DB.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

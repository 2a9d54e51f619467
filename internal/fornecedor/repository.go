package fornecedor

import "gorm.io/gorm"

// Repository encapsula operações de banco para Fornecedor.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create grava um novo fornecedor.
func (r *Repository) Create(f *Fornecedor) error {
	return r.DB.Create(f).Error
}

// FindByID retorna um fornecedor com a regra padrão e suas faixas carregadas.
func (r *Repository) FindByID(id uint) (*Fornecedor, error) {
	var f Fornecedor
	err := r.DB.
		Preload("RegraComissao.Faixas", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, minimo ASC") }).
		First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByOrganizacao lista os fornecedores de uma organização.
func (r *Repository) ListByOrganizacao(orgID uint) ([]Fornecedor, error) {
	var list []Fornecedor
	err := r.DB.Where("organizacao_id = ?", orgID).Order("nome ASC").Find(&list).Error
	return list, err
}

package produtos

import "gorm.io/gorm"

// Repository encapsula operações de banco para Produto.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create grava um novo produto.
func (r *Repository) Create(p *Produto) error {
	return r.DB.Create(p).Error
}

// FindByID busca um produto pelo ID.
func (r *Repository) FindByID(id uint) (*Produto, error) {
	var p Produto
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByFornecedor lista os produtos ativos de um fornecedor.
func (r *Repository) ListByFornecedor(fornecedorID uint) ([]Produto, error) {
	var list []Produto
	err := r.DB.Where("fornecedor_id = ? AND ativo = ?", fornecedorID, true).Find(&list).Error
	return list, err
}

// internal/venda/repository.go
package venda

import (
	"gorm.io/gorm"
)

// Repository encapsula operações de banco para Venda.
type Repository struct {
	DB *gorm.DB
}

// NewRepository instancia um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create insere a venda com seus recebíveis associados em uma transação;
// a atomicidade venda+parcelas vem do Create aninhado do gorm.
func (r *Repository) Create(v *Venda) error {
	return r.DB.Create(v).Error
}

// CreateEmLote insere todas as vendas preparadas (com recebíveis anexados)
// de uma vez. Lote vazio é no-op.
func (r *Repository) CreateEmLote(vendas []*Venda) error {
	if len(vendas) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(vendas).Error
	})
}

// IDsExternosExistentes devolve, dentre os IDs informados, o conjunto dos
// que já existem em vendas da organização: a consulta única que alimenta o
// portão de deduplicação da sincronização.
func (r *Repository) IDsExternosExistentes(orgID uint, ids []string) (map[string]struct{}, error) {
	existentes := make(map[string]struct{})
	if len(ids) == 0 {
		return existentes, nil
	}
	var encontrados []string
	err := r.DB.Model(&Venda{}).
		Where("organizacao_id = ? AND id_externo IN ?", orgID, ids).
		Pluck("id_externo", &encontrados).Error
	if err != nil {
		return nil, err
	}
	for _, id := range encontrados {
		existentes[id] = struct{}{}
	}
	return existentes, nil
}

// FindByID retorna uma venda com os recebíveis carregados.
func (r *Repository) FindByID(id uint) (*Venda, error) {
	var v Venda
	err := r.DB.
		Preload("Recebiveis", func(db *gorm.DB) *gorm.DB { return db.Order("numero_parcela ASC") }).
		First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByVendedor lista as vendas de um vendedor, mais recentes primeiro.
func (r *Repository) ListByVendedor(vendedorID uint) ([]Venda, error) {
	var list []Venda
	err := r.DB.
		Where("vendedor_id = ?", vendedorID).
		Order("data_venda DESC").
		Find(&list).Error
	return list, err
}

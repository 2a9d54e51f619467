// internal/recebivel/repository.go
package recebivel

import (
	"time"

	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de recebíveis.
type Repository struct {
	DB *gorm.DB
}

// NewRepository instancia um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// FindByChave busca uma parcela pela identidade composta.
func (r *Repository) FindByChave(vendaID uint, numeroParcela int) (*Recebivel, error) {
	var parcela Recebivel
	err := r.DB.
		Where("venda_id = ? AND numero_parcela = ?", vendaID, numeroParcela).
		First(&parcela).Error
	if err != nil {
		return nil, err
	}
	return &parcela, nil
}

// ListByVenda busca todas as parcelas de uma venda em ordem de vencimento.
func (r *Repository) ListByVenda(vendaID uint) ([]Recebivel, error) {
	var parcelas []Recebivel
	err := r.DB.
		Where("venda_id = ?", vendaID).
		Order("numero_parcela ASC").
		Find(&parcelas).Error
	return parcelas, err
}

// ListByVendedor busca todas as parcelas de todas as vendas de um vendedor.
// O filtro é uma subconsulta por venda_id; o nome da tabela de parcelas fica
// a cargo da naming strategy do gorm.
func (r *Repository) ListByVendedor(vendedorID uint) ([]Recebivel, error) {
	var parcelas []Recebivel
	err := r.DB.
		Where("venda_id IN (SELECT id FROM vendas WHERE vendedor_id = ? AND deleted_at IS NULL)", vendedorID).
		Order("data_vencimento ASC").
		Find(&parcelas).Error
	return parcelas, err
}

// AtualizarRecebimento grava (ou limpa, com nil) a data de recebimento.
func (r *Repository) AtualizarRecebimento(vendaID uint, numeroParcela int, recebidoEm *time.Time) error {
	return r.DB.Model(&Recebivel{}).
		Where("venda_id = ? AND numero_parcela = ?", vendaID, numeroParcela).
		Update("recebido_em", recebidoEm).Error
}

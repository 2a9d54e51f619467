// internal/regracomissao/repository.go
package regracomissao

import (
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de regras de comissão.
type Repository struct {
	DB *gorm.DB
}

// NewRepository instancia um novo repositório.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create insere uma nova regra. Quando a regra é marcada como padrão, o
// padrão anterior do mesmo dono é limpo na MESMA transação. O invariante
// "um padrão por dono" é procedural, não uma constraint de unicidade.
func (r *Repository) Create(regra *RegraComissao) error {
	if !regra.Padrao {
		return r.DB.Create(regra).Error
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&RegraComissao{}).
			Where("escopo_dono = ? AND dono_id = ? AND padrao = ?", regra.EscopoDono, regra.DonoID, true).
			Update("padrao", false).Error; err != nil {
			return err
		}
		return tx.Create(regra).Error
	})
}

// FindByID retorna uma regra com suas faixas carregadas.
func (r *Repository) FindByID(id uint) (*RegraComissao, error) {
	var regra RegraComissao
	err := r.DB.
		Preload("Faixas", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, minimo ASC") }).
		First(&regra, id).Error
	if err != nil {
		return nil, err
	}
	return &regra, nil
}

// FindPadrao retorna a regra padrão ativa de um dono, ou nil se não houver.
func (r *Repository) FindPadrao(escopo string, donoID uint) (*RegraComissao, error) {
	var regra RegraComissao
	err := r.DB.
		Preload("Faixas", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, minimo ASC") }).
		Where("escopo_dono = ? AND dono_id = ? AND padrao = ? AND ativa = ?", escopo, donoID, true, true).
		First(&regra).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &regra, nil
}

// ListByDono lista todas as regras de um dono.
func (r *Repository) ListByDono(escopo string, donoID uint) ([]RegraComissao, error) {
	var list []RegraComissao
	err := r.DB.
		Preload("Faixas", func(db *gorm.DB) *gorm.DB { return db.Order("ordem ASC, minimo ASC") }).
		Where("escopo_dono = ? AND dono_id = ?", escopo, donoID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Desativar marca uma regra como inativa; retorna gorm.ErrRecordNotFound
// se nada foi alterado.
func (r *Repository) Desativar(id uint) error {
	res := r.DB.Model(&RegraComissao{}).Where("id = ?", id).Update("ativa", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

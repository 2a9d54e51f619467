package recebivel

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status derivados de um recebível. "Atrasada" nunca é persistida: depende
// do "hoje" do relógio e por isso é recalculada a cada leitura.
const (
	StatusPendente = "pendente"
	StatusAtrasada = "atrasada"
	StatusRecebida = "recebida"
)

// Recebivel é uma parcela futura de comissão de uma venda. A identidade é
// composta (venda, número da parcela); parcelas nunca são apagadas
// individualmente, apenas em cascata com a venda.
type Recebivel struct {
	VendaID       uint `gorm:"primaryKey;autoIncrement:false" json:"vendaId"`
	NumeroParcela int  `gorm:"primaryKey;autoIncrement:false" json:"numeroParcela"`

	DataVencimento   time.Time       `gorm:"not null;index" json:"dataVencimento"`
	ValorParcela     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"valorParcela"`
	ComissaoEsperada decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"comissaoEsperada"`
	TotalParcelas    int             `gorm:"not null" json:"totalParcelas"`
	RecebidoEm       *time.Time      `json:"recebidoEm"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Status deriva o estado da parcela para o "hoje" informado.
func (r *Recebivel) Status(hoje time.Time) string {
	return StatusDerivado(r.DataVencimento, r.RecebidoEm, hoje)
}

// StatusDerivado é a função pura de derivação de status:
// recebida quando há data de recebimento; atrasada quando o vencimento já
// passou sem recebimento; pendente caso contrário.
func StatusDerivado(vencimento time.Time, recebidoEm *time.Time, hoje time.Time) string {
	if recebidoEm != nil {
		return StatusRecebida
	}
	if vencimento.Before(truncarDia(hoje)) {
		return StatusAtrasada
	}
	return StatusPendente
}

func truncarDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Recebivel{})
}

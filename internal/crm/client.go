// internal/crm/client.go
package crm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrFetch indica falha total na busca de negócios: a execução da
// sincronização não se completou.
var ErrFetch = errors.New("falha ao buscar negócios no CRM")

// ErrRefresh indica falha na renovação do token de acesso.
var ErrRefresh = errors.New("falha ao renovar token do CRM")

// Negocio é um negócio "ganho" vindo do pipeline externo. O campo de
// usuário chega cru porque o CRM ora manda o identificador puro, ora um
// objeto; a normalização é papel do matcher de vendedores.
type Negocio struct {
	ID        int64           `json:"id"`
	Titulo    string          `json:"title"`
	Valor     decimal.Decimal `json:"value"`
	UsuarioID json.RawMessage `json:"user_id"`
	GanhoEm   *time.Time      `json:"won_time"`
	FechadoEm *time.Time      `json:"close_time"`
}

// Credenciais é o par de tokens vigente de uma integração.
type Credenciais struct {
	AccessToken string
	DominioAPI  string
}

// TokenRenovado é o resultado da troca de refresh token.
type TokenRenovado struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiraEmSegundos int    `json:"expires_in"`
	DominioAPI       string `json:"api_domain"`
}

// Cliente é o contrato com o CRM externo consumido pela sincronização.
type Cliente interface {
	// ObterNegociosGanhos busca TODOS os negócios ganhos, materializando a
	// paginação antes de devolver; o chamador nunca vê páginas.
	ObterNegociosGanhos(ctx context.Context, cred Credenciais) ([]Negocio, error)
	// RenovarToken troca o refresh token por um novo par de tokens.
	RenovarToken(ctx context.Context, refreshToken string) (*TokenRenovado, error)
}

// internal/sincronizacao/service.go
package sincronizacao

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/comissio/api-representante/internal/config"
	"github.com/comissio/api-representante/internal/crm"
	"github.com/comissio/api-representante/internal/parcelamento"
	"github.com/comissio/api-representante/internal/regracomissao"
	"github.com/comissio/api-representante/internal/venda"
	"github.com/comissio/api-representante/internal/vendedor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// IntervaloMinimo é a janela de throttle: uma nova sincronização dentro
	// dela é pulada e reportada como sucesso sem efeito.
	IntervaloMinimo = 2 * time.Minute

	// MargemRenovacao antecipa a renovação do token: tokens a menos de
	// cinco minutos de expirar são trocados antes do fetch.
	MargemRenovacao = 5 * time.Minute
)

// ErrCredencial é fatal para a execução corrente: o chamador deve levar o
// usuário a reautorizar a integração. Não há retry automático.
var ErrCredencial = errors.New("credenciais do CRM inválidas")

// Resultado contabiliza o desfecho de uma execução. Todo negócio buscado
// cai em exatamente um dos três baldes.
type Resultado struct {
	Sincronizadas int `json:"sincronizadas"`
	Ignoradas     int `json:"ignoradas"`
	Erros         int `json:"erros"`
}

// Checkpoints é o contrato de persistência do checkpoint da integração.
type Checkpoints interface {
	FindByOrganizacao(orgID uint) (*CredencialCRM, error)
	AtualizarTokens(orgID uint, accessToken, refreshToken string, expiraEm time.Time, dominioAPI string) error
	RegistrarSincronizacao(orgID uint, em time.Time) error
}

// Vendas é o recorte do repositório de vendas que a sincronização usa.
type Vendas interface {
	IDsExternosExistentes(orgID uint, ids []string) (map[string]struct{}, error)
	CreateEmLote(vendas []*venda.Venda) error
}

// Vendedores fornece o snapshot do diretório para o matcher.
type Vendedores interface {
	FindAtivosComIDExterno(orgID uint) ([]vendedor.Vendedor, error)
}

// Regras resolve a regra de comissão padrão da organização.
type Regras interface {
	FindPadrao(escopo string, donoID uint) (*regracomissao.RegraComissao, error)
}

// Service é o orquestrador da importação de negócios ganhos do CRM:
// throttle, renovação de credencial, fetch, filtragem, persistência em
// lote e checkpoint.
type Service struct {
	checkpoints Checkpoints
	vendas      Vendas
	vendedores  Vendedores
	regras      Regras
	crm         crm.Cliente

	// TaxaImposto é a dedução fiscal única aplicada sobre o bruto de cada
	// negócio importado, antes do cálculo de comissão.
	taxaImposto decimal.Decimal

	agora func() time.Time
	log   *logrus.Logger
}

func NewService(checkpoints Checkpoints, vendas Vendas, vendedores Vendedores, regras Regras, cliente crm.Cliente, taxaImposto decimal.Decimal) *Service {
	return &Service{
		checkpoints: checkpoints,
		vendas:      vendas,
		vendedores:  vendedores,
		regras:      regras,
		crm:         cliente,
		taxaImposto: taxaImposto,
		agora:       time.Now,
		log:         config.GetLogger(),
	}
}

// SincronizarSeNecessario executa a sincronização respeitando o throttle.
// Dentro da janela mínima devolve um resultado zerado sem tocar no CRM.
func (s *Service) SincronizarSeNecessario(ctx context.Context, orgID uint) (Resultado, error) {
	return s.executar(ctx, orgID, false)
}

// Forcar executa a sincronização ignorando o throttle ("sincronizar agora").
func (s *Service) Forcar(ctx context.Context, orgID uint) (Resultado, error) {
	return s.executar(ctx, orgID, true)
}

func (s *Service) executar(ctx context.Context, orgID uint, forcada bool) (Resultado, error) {
	execID := uuid.NewString()
	logger := s.log.WithFields(logrus.Fields{
		"module":        "sincronizacao",
		"execucao":      execID,
		"organizacaoId": orgID,
		"forcada":       forcada,
	})

	cred, err := s.checkpoints.FindByOrganizacao(orgID)
	if err != nil {
		return Resultado{}, fmt.Errorf("%w: integração não configurada: %v", ErrCredencial, err)
	}

	agora := s.agora()

	// Throttle cooperativo por timestamp, sem lock distribuído: duas
	// execuções simultâneas na janela são toleradas porque a reimportação
	// é neutralizada pelo portão de deduplicação.
	if !forcada && cred.UltimaSincronizacao != nil && agora.Sub(*cred.UltimaSincronizacao) < IntervaloMinimo {
		logger.Debug("sincronização pulada pelo throttle")
		return Resultado{}, nil
	}

	if err := s.renovarSePreciso(ctx, cred, agora); err != nil {
		return Resultado{}, err
	}

	negocios, err := s.crm.ObterNegociosGanhos(ctx, crm.Credenciais{
		AccessToken: cred.AccessToken,
		DominioAPI:  cred.DominioAPI,
	})
	if err != nil {
		// Falha total de fetch: a execução simplesmente não se completou;
		// nenhum contador é atribuído e o checkpoint não avança.
		logger.WithError(err).Error("falha ao buscar negócios ganhos")
		return Resultado{}, err
	}

	resultado, staged, err := s.filtrar(orgID, negocios, agora)
	if err != nil {
		return Resultado{}, err
	}

	if len(staged) > 0 {
		if err := s.vendas.CreateEmLote(staged); err != nil {
			// Lote tudo-ou-nada: a falha do insert conta o conjunto inteiro
			// como errado e zera as sincronizadas.
			logger.WithError(err).Error("falha ao gravar lote de vendas importadas")
			resultado.Erros += len(staged)
		} else {
			resultado.Sincronizadas = len(staged)
		}
	}

	if err := s.checkpoints.RegistrarSincronizacao(orgID, agora); err != nil {
		logger.WithError(err).Error("falha ao gravar checkpoint de sincronização")
	}

	logger.WithFields(logrus.Fields{
		"sincronizadas": resultado.Sincronizadas,
		"ignoradas":     resultado.Ignoradas,
		"erros":         resultado.Erros,
	}).Info("sincronização concluída")

	return resultado, nil
}

// renovarSePreciso troca o token quando ele está expirado ou a menos da
// margem de segurança de expirar, persistindo o novo par ANTES do fetch.
func (s *Service) renovarSePreciso(ctx context.Context, cred *CredencialCRM, agora time.Time) error {
	if cred.ExpiraEm.After(agora.Add(MargemRenovacao)) {
		return nil
	}

	token, err := s.crm.RenovarToken(ctx, cred.RefreshToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredencial, err)
	}

	expiraEm := agora.Add(time.Duration(token.ExpiraEmSegundos) * time.Second)
	if err := s.checkpoints.AtualizarTokens(cred.OrganizacaoID, token.AccessToken, token.RefreshToken, expiraEm, token.DominioAPI); err != nil {
		return fmt.Errorf("%w: falha ao persistir tokens renovados: %v", ErrCredencial, err)
	}

	cred.AccessToken = token.AccessToken
	cred.RefreshToken = token.RefreshToken
	cred.ExpiraEm = expiraEm
	if token.DominioAPI != "" {
		cred.DominioAPI = token.DominioAPI
	}
	return nil
}

// filtrar aplica o pipeline aos negócios buscados: deduplicação pelo ID
// externo, match de vendedor, dedução de imposto e montagem da venda com o
// cronograma anexado. Snapshot do diretório e conjunto de IDs já importados
// são carregados UMA vez e consultados em memória.
func (s *Service) filtrar(orgID uint, negocios []crm.Negocio, agora time.Time) (Resultado, []*venda.Venda, error) {
	var resultado Resultado
	if len(negocios) == 0 {
		return resultado, nil, nil
	}

	ids := make([]string, 0, len(negocios))
	for _, n := range negocios {
		ids = append(ids, strconv.FormatInt(n.ID, 10))
	}
	existentes, err := s.vendas.IDsExternosExistentes(orgID, ids)
	if err != nil {
		return resultado, nil, err
	}

	snapshot, err := s.vendedores.FindAtivosComIDExterno(orgID)
	if err != nil {
		return resultado, nil, err
	}
	matcher := vendedor.NewMatcher(snapshot)

	regra, err := s.regras.FindPadrao(regracomissao.EscopoOrganizacao, orgID)
	if err != nil {
		return resultado, nil, err
	}

	var staged []*venda.Venda
	vistosNaExecucao := make(map[string]struct{})

	for _, n := range negocios {
		idExterno := strconv.FormatInt(n.ID, 10)

		if _, ok := existentes[idExterno]; ok {
			resultado.Ignoradas++
			continue
		}
		if _, ok := vistosNaExecucao[idExterno]; ok {
			resultado.Ignoradas++
			continue
		}

		vendedorID, ok := matcher.MatchBruto(n.UsuarioID)
		if !ok {
			// Sem vendedor correspondente: pular, jamais falhar o lote.
			resultado.Ignoradas++
			continue
		}

		liquido, err := regracomissao.ValorLiquido(n.Valor, s.taxaImposto)
		if err != nil {
			resultado.Erros++
			continue
		}

		taxa, valorComissao, err := venda.ResolverComissao(nil, nil, regra, liquido)
		if err != nil {
			resultado.Erros++
			continue
		}

		dataVenda := agora
		if n.GanhoEm != nil {
			dataVenda = *n.GanhoEm
		} else if n.FechadoEm != nil {
			dataVenda = *n.FechadoEm
		}

		id := idExterno
		v := &venda.Venda{
			OrganizacaoID: orgID,
			VendedorID:    vendedorID,
			Titulo:        n.Titulo,
			ValorBruto:    n.Valor,
			TaxaImposto:   s.taxaImposto,
			TaxaComissao:  taxa,
			ValorComissao: valorComissao,
			DataVenda:     dataVenda,
			IDExterno:     &id,
		}
		for _, p := range parcelamento.Gerar(0, v.ValorBruto, v.ValorComissao, v.DataVenda, nil) {
			v.Recebiveis = append(v.Recebiveis, *p)
		}

		vistosNaExecucao[idExterno] = struct{}{}
		staged = append(staged, v)
	}

	return resultado, staged, nil
}

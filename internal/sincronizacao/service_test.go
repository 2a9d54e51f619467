package sincronizacao

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/comissio/api-representante/internal/crm"
	"github.com/comissio/api-representante/internal/regracomissao"
	"github.com/comissio/api-representante/internal/venda"
	"github.com/comissio/api-representante/internal/vendedor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var agoraFixo = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// ── Stubs ────────────────────────────────────────────────────────────

type stubCheckpoints struct {
	cred           *CredencialCRM
	tokensGravados bool
	checkpointEm   *time.Time
}

func (s *stubCheckpoints) FindByOrganizacao(orgID uint) (*CredencialCRM, error) {
	if s.cred == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *s.cred
	return &copia, nil
}

func (s *stubCheckpoints) AtualizarTokens(orgID uint, at, rt string, expiraEm time.Time, dominio string) error {
	s.tokensGravados = true
	s.cred.AccessToken = at
	s.cred.RefreshToken = rt
	s.cred.ExpiraEm = expiraEm
	return nil
}

func (s *stubCheckpoints) RegistrarSincronizacao(orgID uint, em time.Time) error {
	s.checkpointEm = &em
	return nil
}

type stubVendas struct {
	existentes map[string]struct{}
	gravadas   []*venda.Venda
	falharLote bool
}

func (s *stubVendas) IDsExternosExistentes(orgID uint, ids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := s.existentes[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *stubVendas) CreateEmLote(vendas []*venda.Venda) error {
	if s.falharLote {
		return errors.New("insert em lote falhou")
	}
	s.gravadas = append(s.gravadas, vendas...)
	for _, v := range vendas {
		if v.IDExterno != nil {
			if s.existentes == nil {
				s.existentes = make(map[string]struct{})
			}
			s.existentes[*v.IDExterno] = struct{}{}
		}
	}
	return nil
}

type stubVendedores struct {
	snapshot []vendedor.Vendedor
}

func (s *stubVendedores) FindAtivosComIDExterno(orgID uint) ([]vendedor.Vendedor, error) {
	return s.snapshot, nil
}

type stubRegras struct {
	padrao *regracomissao.RegraComissao
}

func (s *stubRegras) FindPadrao(escopo string, donoID uint) (*regracomissao.RegraComissao, error) {
	return s.padrao, nil
}

type stubCRM struct {
	negocios      []crm.Negocio
	fetchErr      error
	fetches       int
	renovacoes    int
	renovarErr    error
	tokenRenovado crm.TokenRenovado
}

func (s *stubCRM) ObterNegociosGanhos(ctx context.Context, cred crm.Credenciais) ([]crm.Negocio, error) {
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.negocios, nil
}

func (s *stubCRM) RenovarToken(ctx context.Context, refreshToken string) (*crm.TokenRenovado, error) {
	s.renovacoes++
	if s.renovarErr != nil {
		return nil, s.renovarErr
	}
	t := s.tokenRenovado
	return &t, nil
}

// ── Fixture ──────────────────────────────────────────────────────────

func credValida() *CredencialCRM {
	return &CredencialCRM{
		OrganizacaoID: 1,
		AccessToken:   "at-vigente",
		RefreshToken:  "rt-vigente",
		ExpiraEm:      agoraFixo.Add(2 * time.Hour),
		DominioAPI:    "https://api.exemplo.com",
	}
}

func negocio(id int64, valor string, usuario string) crm.Negocio {
	ganhoEm := agoraFixo.AddDate(0, 0, -3)
	return crm.Negocio{
		ID:        id,
		Titulo:    "Negócio",
		Valor:     dec(valor),
		UsuarioID: json.RawMessage(usuario),
		GanhoEm:   &ganhoEm,
	}
}

type fixture struct {
	svc         *Service
	checkpoints *stubCheckpoints
	vendas      *stubVendas
	crm         *stubCRM
}

func novaFixture(negocios ...crm.Negocio) *fixture {
	checkpoints := &stubCheckpoints{cred: credValida()}
	vendas := &stubVendas{existentes: make(map[string]struct{})}
	cliente := &stubCRM{negocios: negocios}
	vendedores := &stubVendedores{snapshot: []vendedor.Vendedor{
		{ID: 10, Ativo: true, IDExterno: strPtr("101")},
	}}
	regras := &stubRegras{padrao: &regracomissao.RegraComissao{
		Tipo:               regracomissao.TipoFixa,
		Ativa:              true,
		PercentualComissao: dec("5"),
	}}

	svc := NewService(checkpoints, vendas, vendedores, regras, cliente, dec("10"))
	svc.agora = func() time.Time { return agoraFixo }
	return &fixture{svc: svc, checkpoints: checkpoints, vendas: vendas, crm: cliente}
}

// ── Testes ───────────────────────────────────────────────────────────

func TestSincronizacaoImportaNegocio(t *testing.T) {
	f := novaFixture(negocio(1, "10000", `101`))

	resultado, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Resultado{Sincronizadas: 1}, resultado)

	require.Len(t, f.vendas.gravadas, 1)
	v := f.vendas.gravadas[0]
	require.NotNil(t, v.IDExterno)
	assert.Equal(t, "1", *v.IDExterno)
	assert.Equal(t, uint(10), v.VendedorID)
	// bruto 10000, imposto 10% => líquido 9000; regra fixa 5% => 450.
	assert.True(t, v.ValorComissao.Equal(dec("450")), "comissão: %s", v.ValorComissao)
	require.Len(t, v.Recebiveis, 1)
	assert.True(t, v.Recebiveis[0].DataVencimento.Equal(v.DataVenda))
}

func TestThrottlePulaDentroDaJanela(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `101`))
	ultima := agoraFixo.Add(-1 * time.Minute)
	f.checkpoints.cred.UltimaSincronizacao = &ultima

	resultado, err := f.svc.SincronizarSeNecessario(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Resultado{}, resultado)
	assert.Equal(t, 0, f.crm.fetches, "não deve tocar no CRM dentro da janela")
	assert.Nil(t, f.checkpoints.checkpointEm, "execução pulada não avança o checkpoint")
}

func TestThrottleExecutaForaDaJanela(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `101`))
	ultima := agoraFixo.Add(-10 * time.Minute)
	f.checkpoints.cred.UltimaSincronizacao = &ultima

	resultado, err := f.svc.SincronizarSeNecessario(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resultado.Sincronizadas)
	assert.Equal(t, 1, f.crm.fetches)
}

func TestForcarIgnoraThrottle(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `101`))
	ultima := agoraFixo.Add(-30 * time.Second)
	f.checkpoints.cred.UltimaSincronizacao = &ultima

	resultado, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resultado.Sincronizadas)
}

func TestDeduplicacaoEntreExecucoes(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `101`))

	primeira, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, primeira.Sincronizadas)

	segunda, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Resultado{Ignoradas: 1}, segunda)
	assert.Len(t, f.vendas.gravadas, 1, "o mesmo negócio nunca vira duas vendas")
}

func TestVendedorSemMatchEhIgnorado(t *testing.T) {
	f := novaFixture(
		negocio(1, "1000", `101`),
		negocio(2, "2000", `999`), // sem vendedor vinculado
	)

	resultado, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Resultado{Sincronizadas: 1, Ignoradas: 1}, resultado)
	assert.Len(t, f.vendas.gravadas, 1)
}

func TestUsuarioComoObjetoTambemCasa(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `{"id": 101, "name": "Ana"}`))

	resultado, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resultado.Sincronizadas)
}

func TestRenovacaoDeTokenAntesDoFetch(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `101`))
	f.checkpoints.cred.ExpiraEm = agoraFixo.Add(2 * time.Minute) // dentro da margem
	f.crm.tokenRenovado = crm.TokenRenovado{
		AccessToken:      "at-novo",
		RefreshToken:     "rt-novo",
		ExpiraEmSegundos: 3600,
	}

	_, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.crm.renovacoes)
	assert.True(t, f.checkpoints.tokensGravados, "o novo par deve ser persistido antes do fetch")
	assert.Equal(t, "at-novo", f.checkpoints.cred.AccessToken)
}

func TestTokenVigenteNaoRenova(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `101`))

	_, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, f.crm.renovacoes)
}

func TestRenovacaoFalhaEhErroDeCredencial(t *testing.T) {
	f := novaFixture(negocio(1, "1000", `101`))
	f.checkpoints.cred.ExpiraEm = agoraFixo.Add(-1 * time.Minute)
	f.crm.renovarErr = errors.New("refresh token revogado")

	_, err := f.svc.Forcar(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCredencial)
	assert.Equal(t, 0, f.crm.fetches, "sem credencial válida não há fetch")
}

func TestIntegracaoNaoConfigurada(t *testing.T) {
	f := novaFixture()
	f.checkpoints.cred = nil

	_, err := f.svc.Forcar(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCredencial)
}

func TestFalhaDeFetchNaoAtribuiContadores(t *testing.T) {
	f := novaFixture()
	f.crm.fetchErr = crm.ErrFetch

	resultado, err := f.svc.Forcar(context.Background(), 1)
	assert.ErrorIs(t, err, crm.ErrFetch)
	assert.Equal(t, Resultado{}, resultado)
	assert.Nil(t, f.checkpoints.checkpointEm, "execução incompleta não avança o checkpoint")
}

func TestFalhaDoLoteContaTudoComoErro(t *testing.T) {
	f := novaFixture(
		negocio(1, "1000", `101`),
		negocio(2, "2000", `101`),
		negocio(3, "3000", `999`), // ignorado por falta de match
	)
	f.vendas.falharLote = true

	resultado, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err, "falha de lote vira contador, não erro da execução")
	assert.Equal(t, Resultado{Sincronizadas: 0, Ignoradas: 1, Erros: 2}, resultado)
}

func TestCheckpointAvancaMesmoSemNovidade(t *testing.T) {
	f := novaFixture() // nenhum negócio

	resultado, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Resultado{}, resultado)
	require.NotNil(t, f.checkpoints.checkpointEm)
	assert.True(t, f.checkpoints.checkpointEm.Equal(agoraFixo))
}

func TestDataDaVendaPrefereGanhoEm(t *testing.T) {
	ganho := agoraFixo.AddDate(0, 0, -7)
	fechado := agoraFixo.AddDate(0, 0, -5)
	n := crm.Negocio{ID: 1, Valor: dec("1000"), UsuarioID: json.RawMessage(`101`), GanhoEm: &ganho, FechadoEm: &fechado}
	f := novaFixture(n)

	_, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, f.vendas.gravadas, 1)
	assert.True(t, f.vendas.gravadas[0].DataVenda.Equal(ganho))
}

func TestDataDaVendaCaiParaFechadoEmEDepoisHoje(t *testing.T) {
	fechado := agoraFixo.AddDate(0, 0, -5)
	comFechado := crm.Negocio{ID: 1, Valor: dec("1000"), UsuarioID: json.RawMessage(`101`), FechadoEm: &fechado}
	semDatas := crm.Negocio{ID: 2, Valor: dec("1000"), UsuarioID: json.RawMessage(`101`)}
	f := novaFixture(comFechado, semDatas)

	_, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, f.vendas.gravadas, 2)
	assert.True(t, f.vendas.gravadas[0].DataVenda.Equal(fechado))
	assert.True(t, f.vendas.gravadas[1].DataVenda.Equal(agoraFixo))
}

func TestNegocioRepetidoNaMesmaExecucao(t *testing.T) {
	f := novaFixture(
		negocio(1, "1000", `101`),
		negocio(1, "1000", `101`),
	)

	resultado, err := f.svc.Forcar(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Resultado{Sincronizadas: 1, Ignoradas: 1}, resultado)
}

package main

import (
	"net/http"
	"os"

	"github.com/comissio/api-representante/internal/auth"
	"github.com/comissio/api-representante/internal/config"
	"github.com/comissio/api-representante/internal/crm"
	"github.com/comissio/api-representante/internal/fornecedor"
	"github.com/comissio/api-representante/internal/produtos"
	"github.com/comissio/api-representante/internal/recebivel"
	"github.com/comissio/api-representante/internal/regracomissao"
	"github.com/comissio/api-representante/internal/sincronizacao"
	"github.com/comissio/api-representante/internal/utils/db"
	"github.com/comissio/api-representante/internal/venda"
	"github.com/comissio/api-representante/internal/vendedor"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	logger := config.GetLogger()

	// .env é opcional; em produção as variáveis vêm do ambiente.
	_ = godotenv.Load()

	database, err := db.GetDB()
	if err != nil {
		logger.WithError(err).Fatal("erro ao conectar no banco")
	}

	migracoes := []func(*gorm.DB) error{
		vendedor.Migrate,
		regracomissao.Migrate,
		fornecedor.Migrate,
		produtos.Migrate,
		venda.Migrate,
		recebivel.Migrate,
		sincronizacao.Migrate,
	}
	for _, migrate := range migracoes {
		if err := migrate(database); err != nil {
			logger.WithError(err).Fatal("erro ao migrar o banco")
		}
	}

	// Taxa de dedução fiscal aplicada às vendas importadas do CRM.
	taxaImposto, err := decimal.NewFromString(os.Getenv("TAXA_IMPOSTO_SINCRONIZACAO"))
	if err != nil {
		taxaImposto = decimal.Zero
	}

	// Repositórios
	vendedorRepo := vendedor.NewRepository(database)
	regraRepo := regracomissao.NewRepository(database)
	fornecedorRepo := fornecedor.NewRepository(database)
	produtoRepo := produtos.NewRepository(database)
	vendaRepo := venda.NewRepository(database)
	recebivelRepo := recebivel.NewRepository(database)
	credencialRepo := sincronizacao.NewRepository(database)

	// Serviços
	vendaService := venda.NewService(vendaRepo, fornecedorRepo, produtoRepo)
	recebivelService := recebivel.NewService(recebivelRepo)
	sincronizacaoService := sincronizacao.NewService(
		credencialRepo, vendaRepo, vendedorRepo, regraRepo,
		crm.NewHTTPClient(), taxaImposto,
	)

	// Handlers
	vendedorHandler := vendedor.NewHandler(vendedorRepo)
	regraHandler := regracomissao.NewHandler(regraRepo)
	fornecedorHandler := fornecedor.NewHandler(fornecedorRepo)
	produtoHandler := produtos.NewHandler(produtoRepo)
	vendaHandler := venda.NewHandler(vendaRepo, vendaService)
	recebivelHandler := recebivel.NewHandler(recebivelRepo, recebivelService)
	sincronizacaoHandler := sincronizacao.NewHandler(sincronizacaoService)

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/auth/login", vendedorHandler.Login).Methods("POST")

	api := r.PathPrefix("/").Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	// Vendedores
	api.HandleFunc("/vendedores", vendedorHandler.Criar).Methods("POST")
	api.HandleFunc("/vendedores", vendedorHandler.Listar).Methods("GET")
	api.HandleFunc("/vendedores/{id}", vendedorHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/vendedores/{id}/vinculo-crm", vendedorHandler.VincularCRM).Methods("PATCH")

	// Regras de comissão
	api.HandleFunc("/regras-comissao", regraHandler.Criar).Methods("POST")
	api.HandleFunc("/regras-comissao", regraHandler.Listar).Methods("GET")
	api.HandleFunc("/regras-comissao/{id}", regraHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/regras-comissao/{id}", regraHandler.Desativar).Methods("DELETE")
	api.HandleFunc("/regras-comissao/{id}/avaliar", regraHandler.Avaliar).Methods("POST")

	// Fornecedores e produtos
	api.HandleFunc("/fornecedores", fornecedorHandler.Criar).Methods("POST")
	api.HandleFunc("/fornecedores", fornecedorHandler.Listar).Methods("GET")
	api.HandleFunc("/fornecedores/{id}", fornecedorHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/fornecedores/{id}/produtos", produtoHandler.Criar).Methods("POST")
	api.HandleFunc("/fornecedores/{id}/produtos", produtoHandler.ListarPorFornecedor).Methods("GET")

	// Vendas
	api.HandleFunc("/vendas", vendaHandler.Criar).Methods("POST")
	api.HandleFunc("/vendas/{id}", vendaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/vendedores/{id}/vendas", vendaHandler.ListarPorVendedor).Methods("GET")

	// Recebíveis
	api.HandleFunc("/vendas/{id}/recebiveis", recebivelHandler.ListarPorVenda).Methods("GET")
	api.HandleFunc("/vendedores/{id}/recebiveis", recebivelHandler.ListarPorVendedor).Methods("GET")
	api.HandleFunc("/vendas/{id}/recebiveis/{parcela}/receber", recebivelHandler.MarcarRecebida).Methods("PATCH")
	api.HandleFunc("/vendas/{id}/recebiveis/{parcela}/desfazer", recebivelHandler.DesfazerRecebimento).Methods("PATCH")
	api.HandleFunc("/recebiveis/conciliar", recebivelHandler.Conciliar).Methods("POST")

	// Sincronização com o CRM
	api.HandleFunc("/organizacoes/{id}/sincronizacao", sincronizacaoHandler.Sincronizar).Methods("POST")
	api.HandleFunc("/organizacoes/{id}/sincronizacao/agora", sincronizacaoHandler.SincronizarAgora).Methods("POST")

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("CORS_ORIGIN")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	logger.WithField("porta", porta).Info("servidor iniciado")
	if err := http.ListenAndServe(":"+porta, handler); err != nil {
		logger.WithError(err).Fatal("servidor encerrou com erro")
	}
}

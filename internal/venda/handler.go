package venda

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/comissio/api-representante/internal/auth"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Repo     *Repository
	Service  *Service
	validate *validator.Validate
}

func NewHandler(repo *Repository, service *Service) *Handler {
	return &Handler{Repo: repo, Service: service, validate: validator.New()}
}

type criarVendaDTO struct {
	VendedorID        uint             `json:"vendedorId" validate:"required"`
	FornecedorID      *uint            `json:"fornecedorId"`
	ClienteID         *uint            `json:"clienteId"`
	ProdutoID         *uint            `json:"produtoId"`
	Titulo            string           `json:"titulo"`
	ValorBruto        decimal.Decimal  `json:"valorBruto"`
	TaxaImposto       decimal.Decimal  `json:"taxaImposto"`
	PercentualManual  *decimal.Decimal `json:"percentualManual"`
	DataVenda         time.Time        `json:"dataVenda"`
	CondicaoPagamento *string          `json:"condicaoPagamento"`
}

// POST /vendas
// A organização vem sempre do token autenticado, nunca do corpo: um
// chamador não grava vendas em outra organização.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizacaoDoContexto(r)
	if !ok {
		http.Error(w, "Organização ausente no token", http.StatusUnauthorized)
		return
	}

	var in criarVendaDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&in); err != nil {
		http.Error(w, "Campos obrigatórios ausentes ou inválidos", http.StatusBadRequest)
		return
	}
	if in.DataVenda.IsZero() {
		in.DataVenda = time.Now()
	}

	v, err := h.Service.Criar(NovaVenda{
		OrganizacaoID:     orgID,
		VendedorID:        in.VendedorID,
		FornecedorID:      in.FornecedorID,
		ClienteID:         in.ClienteID,
		ProdutoID:         in.ProdutoID,
		Titulo:            in.Titulo,
		ValorBruto:        in.ValorBruto,
		TaxaImposto:       in.TaxaImposto,
		PercentualManual:  in.PercentualManual,
		DataVenda:         in.DataVenda,
		CondicaoPagamento: in.CondicaoPagamento,
	})
	if err != nil {
		if errors.Is(err, ErrValorInvalido) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Erro ao criar venda", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /vendas/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da venda inválido", http.StatusBadRequest)
		return
	}

	v, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Venda não encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// GET /vendedores/{id}/vendas
func (h *Handler) ListarPorVendedor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do vendedor inválido", http.StatusBadRequest)
		return
	}

	vendas, err := h.Repo.ListByVendedor(uint(id))
	if err != nil {
		http.Error(w, "Erro ao buscar vendas", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(vendas)
}

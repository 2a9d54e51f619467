package produtos

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Repo     *Repository
	validate *validator.Validate
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo, validate: validator.New()}
}

type criarProdutoDTO struct {
	Nome               string           `json:"nome" validate:"required"`
	PercentualComissao *decimal.Decimal `json:"percentualComissao"`
}

// POST /fornecedores/{id}/produtos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	fornecedorID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do fornecedor inválido", http.StatusBadRequest)
		return
	}

	var in criarProdutoDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&in); err != nil {
		http.Error(w, "Campos obrigatórios ausentes ou inválidos", http.StatusBadRequest)
		return
	}
	if in.PercentualComissao != nil && in.PercentualComissao.IsNegative() {
		http.Error(w, "Percentual de comissão não pode ser negativo", http.StatusBadRequest)
		return
	}

	p := &Produto{
		FornecedorID:       uint(fornecedorID),
		Nome:               in.Nome,
		Ativo:              true,
		PercentualComissao: in.PercentualComissao,
	}
	if err := h.Repo.Create(p); err != nil {
		http.Error(w, "Erro ao criar produto", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// GET /fornecedores/{id}/produtos
func (h *Handler) ListarPorFornecedor(w http.ResponseWriter, r *http.Request) {
	fornecedorID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do fornecedor inválido", http.StatusBadRequest)
		return
	}

	list, err := h.Repo.ListByFornecedor(uint(fornecedorID))
	if err != nil {
		http.Error(w, "Erro ao buscar produtos", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

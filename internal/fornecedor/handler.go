package fornecedor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/comissio/api-representante/internal/auth"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type Handler struct {
	Repo     *Repository
	validate *validator.Validate
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo, validate: validator.New()}
}

type criarFornecedorDTO struct {
	Nome            string `json:"nome" validate:"required"`
	CNPJ            string `json:"cnpj"`
	RegraComissaoID *uint  `json:"regraComissaoId"`
}

// POST /fornecedores
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizacaoDoContexto(r)
	if !ok {
		http.Error(w, "Organização ausente no token", http.StatusUnauthorized)
		return
	}

	var in criarFornecedorDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&in); err != nil {
		http.Error(w, "Campos obrigatórios ausentes ou inválidos", http.StatusBadRequest)
		return
	}

	f := &Fornecedor{
		OrganizacaoID:   orgID,
		Nome:            in.Nome,
		CNPJ:            in.CNPJ,
		Ativo:           true,
		RegraComissaoID: in.RegraComissaoID,
	}
	if err := h.Repo.Create(f); err != nil {
		http.Error(w, "Erro ao criar fornecedor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(f)
}

// GET /fornecedores
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizacaoDoContexto(r)
	if !ok {
		http.Error(w, "Organização ausente no token", http.StatusUnauthorized)
		return
	}

	list, err := h.Repo.ListByOrganizacao(orgID)
	if err != nil {
		http.Error(w, "Erro ao buscar fornecedores", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GET /fornecedores/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do fornecedor inválido", http.StatusBadRequest)
		return
	}

	f, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Fornecedor não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f)
}

package vendedor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/comissio/api-representante/internal/auth"
	"github.com/comissio/api-representante/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	Repo     *Repository
	validate *validator.Validate
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo, validate: validator.New()}
}

type loginDTO struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&in); err != nil {
		http.Error(w, "Campos obrigatórios ausentes ou inválidos", http.StatusBadRequest)
		return
	}

	v, err := h.Repo.FindByEmail(in.Email)
	if err != nil || !utils.VerificarSenha(v.Senha, in.Senha) {
		http.Error(w, "Credenciais inválidas", http.StatusUnauthorized)
		return
	}

	token, err := auth.GerarToken(v.ID, v.OrganizacaoID)
	if err != nil {
		http.Error(w, "Erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

type criarVendedorDTO struct {
	Nome      string  `json:"nome" validate:"required"`
	Sobrenome string  `json:"sobrenome"`
	Email     string  `json:"email" validate:"required,email"`
	IDExterno *string `json:"idExterno"`
}

// POST /vendedores
// Provisiona o vendedor com uma senha temporária, devolvida uma única vez na
// resposta para ser repassada fora de banda.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizacaoDoContexto(r)
	if !ok {
		http.Error(w, "Organização ausente no token", http.StatusUnauthorized)
		return
	}

	var in criarVendedorDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&in); err != nil {
		http.Error(w, "Campos obrigatórios ausentes ou inválidos", http.StatusBadRequest)
		return
	}

	senha, err := utils.GerarSenhaTemporaria()
	if err != nil {
		http.Error(w, "Erro ao gerar senha temporária", http.StatusInternalServerError)
		return
	}
	hash, err := utils.HashSenha(senha)
	if err != nil {
		http.Error(w, "Erro ao gerar senha temporária", http.StatusInternalServerError)
		return
	}

	v := &Vendedor{
		OrganizacaoID: orgID,
		Nome:          in.Nome,
		Sobrenome:     in.Sobrenome,
		Email:         in.Email,
		Senha:         hash,
		Ativo:         true,
		IDExterno:     in.IDExterno,
	}
	if err := h.Repo.Create(v); err != nil {
		http.Error(w, "Erro ao criar vendedor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"vendedor":        v,
		"senhaTemporaria": senha,
	})
}

// GET /vendedores
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrganizacaoDoContexto(r)
	if !ok {
		http.Error(w, "Organização ausente no token", http.StatusUnauthorized)
		return
	}

	list, err := h.Repo.ListByOrganizacao(orgID)
	if err != nil {
		http.Error(w, "Erro ao buscar vendedores", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GET /vendedores/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do vendedor inválido", http.StatusBadRequest)
		return
	}

	v, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Vendedor não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type vincularCRMDTO struct {
	IDExterno *string `json:"idExterno"`
}

// PATCH /vendedores/{id}/vinculo-crm
// Define (ou limpa, com null) o vínculo do vendedor com o usuário do CRM.
func (h *Handler) VincularCRM(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do vendedor inválido", http.StatusBadRequest)
		return
	}

	var in vincularCRMDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	if err := h.Repo.VincularIDExterno(uint(id), in.IDExterno); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Vendedor não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao vincular vendedor", http.StatusInternalServerError)
		return
	}

	v, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Erro ao buscar vendedor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

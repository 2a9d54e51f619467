package regracomissao

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/comissio/api-representante/internal/auth"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	Repo     *Repository
	validate *validator.Validate
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo, validate: validator.New()}
}

// POST /regras-comissao
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in CreateRegraDTO
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&in); err != nil {
		http.Error(w, "Campos obrigatórios ausentes ou inválidos", http.StatusBadRequest)
		return
	}

	regra := in.ToModel(in.donoID(r))
	if err := ValidarRegra(regra); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Repo.Create(regra); err != nil {
		http.Error(w, "Erro ao criar regra de comissão", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(regra)
}

// GET /regras-comissao?escopo=organizacao&donoId=1
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	escopo := r.URL.Query().Get("escopo")
	donoID, err := strconv.Atoi(r.URL.Query().Get("donoId"))
	if escopo == "" || err != nil {
		http.Error(w, "Parâmetros escopo e donoId são obrigatórios", http.StatusBadRequest)
		return
	}

	regras, err := h.Repo.ListByDono(escopo, uint(donoID))
	if err != nil {
		http.Error(w, "Erro ao buscar regras", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(regras)
}

// GET /regras-comissao/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da regra inválido", http.StatusBadRequest)
		return
	}

	regra, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Regra não encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(regra)
}

// POST /regras-comissao/{id}/avaliar
// Avalia a regra contra um valor base líquido informado no corpo.
func (h *Handler) Avaliar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da regra inválido", http.StatusBadRequest)
		return
	}

	var payload struct {
		ValorBase decimal.Decimal `json:"valorBase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	regra, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "Regra não encontrada", http.StatusNotFound)
		return
	}

	comissao, err := Avaliar(regra, payload.ValorBase)
	if err != nil {
		if errors.Is(err, ErrValorNegativo) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Erro ao avaliar regra", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]decimal.Decimal{"comissao": comissao})
}

// DELETE /regras-comissao/{id}
func (h *Handler) Desativar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da regra inválido", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Desativar(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			http.Error(w, "Regra não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao desativar regra", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// donoID resolve o dono da regra: regras pessoais pertencem ao usuário
// autenticado; regras de organização, à organização do token.
func (d *CreateRegraDTO) donoID(r *http.Request) uint {
	// Os valores são injetados pelo middleware de autenticação.
	if d.EscopoDono == EscopoPessoal {
		if v, ok := r.Context().Value(auth.CtxUserID).(uint); ok {
			return v
		}
		return 0
	}
	if v, ok := r.Context().Value(auth.CtxOrganizacaoID).(uint); ok {
		return v
	}
	return 0
}

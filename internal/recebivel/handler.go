package recebivel

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type Handler struct {
	Repo    *Repository
	Service *Service
}

func NewHandler(repo *Repository, service *Service) *Handler {
	return &Handler{Repo: repo, Service: service}
}

// visão serializada com o status derivado no momento da leitura
type recebivelView struct {
	Recebivel
	Status string `json:"status"`
}

func comStatus(parcelas []Recebivel, hoje time.Time) []recebivelView {
	views := make([]recebivelView, 0, len(parcelas))
	for _, p := range parcelas {
		views = append(views, recebivelView{Recebivel: p, Status: p.Status(hoje)})
	}
	return views
}

// GET /vendas/{id}/recebiveis
func (h *Handler) ListarPorVenda(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da venda inválido", http.StatusBadRequest)
		return
	}

	parcelas, err := h.Repo.ListByVenda(uint(id))
	if err != nil {
		http.Error(w, "Erro ao buscar recebíveis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(comStatus(parcelas, time.Now()))
}

// GET /vendedores/{id}/recebiveis
func (h *Handler) ListarPorVendedor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do vendedor inválido", http.StatusBadRequest)
		return
	}

	parcelas, err := h.Repo.ListByVendedor(uint(id))
	if err != nil {
		http.Error(w, "Erro ao buscar recebíveis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(comStatus(parcelas, time.Now()))
}

type marcarRecebidaRequest struct {
	Valor           decimal.Decimal `json:"valor"`
	DataRecebimento *time.Time      `json:"dataRecebimento"`
}

// PATCH /vendas/{id}/recebiveis/{parcela}/receber
func (h *Handler) MarcarRecebida(w http.ResponseWriter, r *http.Request) {
	vendaID, parcela, ok := chaveDaRota(w, r)
	if !ok {
		return
	}

	var payload marcarRecebidaRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	atualizada, err := h.Service.MarcarRecebida(vendaID, parcela, payload.Valor, payload.DataRecebimento)
	if err != nil {
		if errors.Is(err, ErrNaoEncontrada) {
			http.Error(w, "Recebível não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao confirmar recebimento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recebivelView{Recebivel: *atualizada, Status: atualizada.Status(time.Now())})
}

// PATCH /vendas/{id}/recebiveis/{parcela}/desfazer
func (h *Handler) DesfazerRecebimento(w http.ResponseWriter, r *http.Request) {
	vendaID, parcela, ok := chaveDaRota(w, r)
	if !ok {
		return
	}

	atualizada, err := h.Service.DesfazerRecebimento(vendaID, parcela)
	if err != nil {
		if errors.Is(err, ErrNaoEncontrada) {
			http.Error(w, "Recebível não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao desfazer recebimento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recebivelView{Recebivel: *atualizada, Status: atualizada.Status(time.Now())})
}

type conciliarRequest struct {
	Itens           []ItemConciliacao `json:"itens"`
	DataRecebimento *time.Time        `json:"dataRecebimento"`
}

// POST /recebiveis/conciliar
func (h *Handler) Conciliar(w http.ResponseWriter, r *http.Request) {
	var payload conciliarRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if len(payload.Itens) == 0 {
		http.Error(w, "Lote de conciliação vazio", http.StatusBadRequest)
		return
	}

	resultado := h.Service.ConciliarLote(payload.Itens, payload.DataRecebimento)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resultado)
}

func chaveDaRota(w http.ResponseWriter, r *http.Request) (uint, int, bool) {
	vars := mux.Vars(r)
	vendaID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "ID da venda inválido", http.StatusBadRequest)
		return 0, 0, false
	}
	parcela, err := strconv.Atoi(vars["parcela"])
	if err != nil {
		http.Error(w, "Número da parcela inválido", http.StatusBadRequest)
		return 0, 0, false
	}
	return uint(vendaID), parcela, true
}

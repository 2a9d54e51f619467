package sincronizacao

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/comissio/api-representante/internal/crm"
	"github.com/gorilla/mux"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// POST /organizacoes/{id}/sincronizacao
// Dispara a sincronização respeitando o throttle.
func (h *Handler) Sincronizar(w http.ResponseWriter, r *http.Request) {
	h.executar(w, r, false)
}

// POST /organizacoes/{id}/sincronizacao/agora
// "Sincronizar agora": ignora o throttle.
func (h *Handler) SincronizarAgora(w http.ResponseWriter, r *http.Request) {
	h.executar(w, r, true)
}

func (h *Handler) executar(w http.ResponseWriter, r *http.Request, forcada bool) {
	orgID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID da organização inválido", http.StatusBadRequest)
		return
	}

	var resultado Resultado
	if forcada {
		resultado, err = h.Service.Forcar(r.Context(), uint(orgID))
	} else {
		resultado, err = h.Service.SincronizarSeNecessario(r.Context(), uint(orgID))
	}
	if err != nil {
		if errors.Is(err, ErrCredencial) {
			// 401 sinaliza à UI que é hora de reautorizar a integração.
			http.Error(w, "Credenciais do CRM expiradas; reautorize a integração", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, crm.ErrFetch) {
			http.Error(w, "CRM indisponível; tente novamente mais tarde", http.StatusBadGateway)
			return
		}
		http.Error(w, "Erro ao sincronizar", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resultado)
}

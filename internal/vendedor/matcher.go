// internal/vendedor/matcher.go
package vendedor

import (
	"encoding/json"
	"strconv"
)

// Matcher resolve o identificador de usuário do CRM externo para o ID do
// vendedor interno. É construído sobre um snapshot imutável do diretório de
// vendedores ativos e vinculados; a sincronização monta um matcher por
// execução e o consulta em memória, sem novas idas ao banco.
type Matcher struct {
	porIDExterno map[string]uint
}

// NewMatcher monta o matcher a partir do snapshot do diretório. Vendedores
// sem vínculo nunca entram no índice.
func NewMatcher(vendedores []Vendedor) *Matcher {
	idx := make(map[string]uint, len(vendedores))
	for _, v := range vendedores {
		if v.IDExterno == nil || *v.IDExterno == "" {
			continue
		}
		idx[*v.IDExterno] = v.ID
	}
	return &Matcher{porIDExterno: idx}
}

// Match devolve o ID interno do vendedor para um identificador externo.
// A ausência de correspondência não é erro: o chamador deve pular o item.
func (m *Matcher) Match(idExterno string) (uint, bool) {
	id, ok := m.porIDExterno[idExterno]
	return id, ok
}

// MatchBruto normaliza o campo de usuário do payload externo e faz o match.
func (m *Matcher) MatchBruto(raw json.RawMessage) (uint, bool) {
	idExterno, ok := NormalizarIDUsuario(raw)
	if !ok {
		return 0, false
	}
	return m.Match(idExterno)
}

// NormalizarIDUsuario aceita as duas formas que o CRM usa para o campo de
// usuário de um negócio: um identificador puro (número ou string) ou um
// objeto contendo o identificador ({"id": 123, ...}).
func NormalizarIDUsuario(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var numero int64
	if err := json.Unmarshal(raw, &numero); err == nil {
		return strconv.FormatInt(numero, 10), true
	}

	var texto string
	if err := json.Unmarshal(raw, &texto); err == nil {
		return texto, texto != ""
	}

	var objeto struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &objeto); err == nil && len(objeto.ID) > 0 {
		return NormalizarIDUsuario(objeto.ID)
	}

	return "", false
}

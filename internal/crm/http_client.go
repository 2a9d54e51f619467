// internal/crm/http_client.go
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const paginaTamanho = 100

// HTTPClient implementa Cliente contra a API REST do CRM.
type HTTPClient struct {
	http     *http.Client
	oauthURL string
}

func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		http:     &http.Client{Timeout: 30 * time.Second},
		oauthURL: os.Getenv("CRM_OAUTH_URL"),
	}
}

type paginaNegocios struct {
	Data           []Negocio `json:"data"`
	AdditionalData struct {
		Pagination struct {
			MoreItemsInCollection bool `json:"more_items_in_collection"`
			NextStart             int  `json:"next_start"`
		} `json:"pagination"`
	} `json:"additional_data"`
}

// ObterNegociosGanhos percorre a paginação do endpoint de negócios com
// status "won" e devolve a lista completa. As páginas são buscadas em
// sequência, nada de paralelismo contra o rate limit do CRM.
func (c *HTTPClient) ObterNegociosGanhos(ctx context.Context, cred Credenciais) ([]Negocio, error) {
	var todos []Negocio
	start := 0
	for {
		pagina, err := c.buscarPagina(ctx, cred, start)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		todos = append(todos, pagina.Data...)
		if !pagina.AdditionalData.Pagination.MoreItemsInCollection {
			return todos, nil
		}
		start = pagina.AdditionalData.Pagination.NextStart
	}
}

func (c *HTTPClient) buscarPagina(ctx context.Context, cred Credenciais, start int) (*paginaNegocios, error) {
	endpoint := fmt.Sprintf("%s/api/v1/deals?status=won&start=%d&limit=%d", strings.TrimRight(cred.DominioAPI, "/"), start, paginaTamanho)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CRM respondeu %d", resp.StatusCode)
	}

	var pagina paginaNegocios
	if err := json.NewDecoder(resp.Body).Decode(&pagina); err != nil {
		return nil, err
	}
	return &pagina, nil
}

// RenovarToken faz a troca OAuth do refresh token por um novo par.
func (c *HTTPClient) RenovarToken(ctx context.Context, refreshToken string) (*TokenRenovado, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", os.Getenv("CRM_CLIENT_ID"))
	form.Set("client_secret", os.Getenv("CRM_CLIENT_SECRET"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefresh, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefresh, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: oauth respondeu %s", ErrRefresh, strconv.Itoa(resp.StatusCode))
	}

	var token TokenRenovado
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefresh, err)
	}
	return &token, nil
}

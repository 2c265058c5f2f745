package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeSheetsAPI struct {
	handler func(w http.ResponseWriter, r *http.Request)
	calls   []recordedCall
	mu      sync.Mutex
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	f.handler(w, r)
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeSheetsAPI) {
	t.Helper()

	api := &fakeSheetsAPI{handler: handler}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	config := DefaultConfig()
	config.SpreadsheetID = "sheet-1"
	config.RetryAttempts = 2
	config.RetryDelay = time.Millisecond

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClientWithService(srv, config, logger), api
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ReadTable(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"range":          "'Receitas_Reais'!A1:C3",
			"majorDimension": "ROWS",
			"values": [][]any{
				{"Projeto", "Valor Recebido", "Data Recebimento"},
				{"P1", 1000, "05/03/2024"},
				{"P2", 250.5},
			},
		})
	})

	table, err := client.ReadTable(context.Background(), "Receitas_Reais")
	require.NoError(t, err)

	assert.Equal(t, []string{"Projeto", "Valor Recebido", "Data Recebimento"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []any{"P1", 1000.0, "05/03/2024"}, table.Rows[0])

	require.Len(t, api.calls, 1)
	assert.Equal(t, http.MethodGet, api.calls[0].Method)
	assert.Equal(t, "/v4/spreadsheets/sheet-1/values/'Receitas_Reais'", api.calls[0].Path)
	assert.Contains(t, api.calls[0].Query, "valueRenderOption=UNFORMATTED_VALUE")
	assert.Contains(t, api.calls[0].Query, "dateTimeRenderOption=FORMATTED_STRING")
}

func TestClient_ReadTable_Empty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"range": "'Calculo_Impostos'!A1:Z1000"})
	})

	table, err := client.ReadTable(context.Background(), "Calculo_Impostos")
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
}

func TestClient_ReadTable_MissingTab(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]any{"error": map[string]any{
			"code":    400,
			"message": "Unable to parse range: 'Calculo_Impostos'",
		}})
	})

	_, err := client.ReadTable(context.Background(), "Calculo_Impostos")
	assert.ErrorIs(t, err, common.ErrTableNotFound)
	assert.Len(t, api.calls, 1)
}

func TestClient_ReadTable_RetriesServerErrors(t *testing.T) {
	var attempts int
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			writeJSON(w, map[string]any{"error": map[string]any{"code": 503, "message": "backend error"}})
			return
		}
		writeJSON(w, map[string]any{"values": [][]any{{"Categoria", "Valor"}}})
	})

	table, err := client.ReadTable(context.Background(), "Custos_Fixos_Variaveis")
	require.NoError(t, err)
	assert.Equal(t, []string{"Categoria", "Valor"}, table.Header)
	assert.Equal(t, 2, attempts)
}

func TestClient_UpdateRow(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"updatedRows": 1})
	})

	err := client.UpdateRow(context.Background(), "Calculo_Impostos", 3, []any{"id-1", "P1", 1000, 50, 50})
	require.NoError(t, err)

	require.Len(t, api.calls, 1)
	call := api.calls[0]
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "/v4/spreadsheets/sheet-1/values/'Calculo_Impostos'!A3:E3", call.Path)
	assert.Contains(t, call.Query, "valueInputOption=USER_ENTERED")
	assert.Contains(t, call.Body, `"id-1"`)
}

func TestClient_AppendRow_CreatesMissingTab(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			writeJSON(w, map[string]any{"sheets": []any{
				map[string]any{"properties": map[string]any{"title": "Projetos", "sheetId": 0}},
			}})
		case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			writeJSON(w, map[string]any{"replies": []any{
				map[string]any{"addSheet": map[string]any{"properties": map[string]any{"title": "Calculo_Impostos", "sheetId": 77}}},
			}})
		default:
			writeJSON(w, map[string]any{"updates": map[string]any{"updatedRows": 1}})
		}
	})

	ctx := context.Background()
	require.NoError(t, client.AppendRow(ctx, "Calculo_Impostos", []any{"ID", "Projeto"}))
	require.NoError(t, client.AppendRow(ctx, "Calculo_Impostos", []any{"id-1", "P1"}))

	var paths []string
	for _, c := range api.calls {
		paths = append(paths, c.Method+" "+c.Path)
	}
	assert.Equal(t, []string{
		"GET /v4/spreadsheets/sheet-1",
		"POST /v4/spreadsheets/sheet-1:batchUpdate",
		"POST /v4/spreadsheets/sheet-1/values/'Calculo_Impostos'!A1:append",
		"POST /v4/spreadsheets/sheet-1/values/'Calculo_Impostos'!A1:append",
	}, paths)
	assert.Contains(t, api.calls[2].Query, "insertDataOption=INSERT_ROWS")
	assert.Contains(t, api.calls[1].Body, `"title":"Calculo_Impostos"`)
}

func TestClient_FormatTable(t *testing.T) {
	client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, map[string]any{"sheets": []any{
				map[string]any{"properties": map[string]any{"title": "Calculo_Impostos", "sheetId": 9}},
			}})
			return
		}
		writeJSON(w, map[string]any{})
	})

	require.NoError(t, client.FormatTable(context.Background(), "Calculo_Impostos", 6))
	require.Len(t, api.calls, 2)
	assert.Contains(t, api.calls[1].Body, `"frozenRowCount":1`)
	assert.Contains(t, api.calls[1].Body, `"CURRENCY"`)

	client.config.EnableFormatting = false
	require.NoError(t, client.FormatTable(context.Background(), "Calculo_Impostos", 6))
	assert.Len(t, api.calls, 2)
}

package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWorkbook(t *testing.T) *MemoryWorkbook {
	t.Helper()

	wb := NewMemoryWorkbook("test-sheet")
	wb.SetTable("Projetos", model.Table{
		Header: []string{"Código", "Cliente", "Meta de Receita", "Orçamento"},
		Rows: [][]any{
			{"P1", "Acme", 10000.0, 5000.0},
			{"P2", "Globex", "", "abc"},
			{"", "Nobody", 1.0, 1.0},
		},
	})
	wb.SetTable("Receitas_Reais", model.Table{
		Header: []string{"Projeto", "Valor Recebido", "Data Recebimento"},
		Rows: [][]any{
			{"P1", 1000.0, "2024-03-05"},
			{"P2", "R$ 2.500,00", "10/03/2024"},
			{"P1", "oops", "2024-03-06"},
			{},
		},
	})
	wb.SetTable("Despesas_Reais", model.Table{
		Header: []string{"Projeto", "Valor Pago", "Data Pagamento"},
		Rows: [][]any{
			{"P1", 400.0, "2024-03-07"},
			{"P2", 100.0, "not a date"},
		},
	})
	wb.SetTable("Custos_Fixos_Variaveis", model.Table{
		Header: []string{"Categoria", "Valor"},
		Rows:   [][]any{{"Aluguel", 1200.0}, {"Software", "300,50"}},
	})
	wb.SetTable("Parametros_Impostos", model.Table{
		Header: []string{"Imposto", "Alíquota"},
		Rows:   [][]any{{"ISS", 0.05}, {"PIS", "0,65%"}, {"", 0.1}},
	})
	return wb
}

func TestLoad(t *testing.T) {
	wb := seedWorkbook(t)

	src, err := Load(context.Background(), wb, DefaultLayout())
	require.NoError(t, err)

	require.Len(t, src.Projects, 2)
	assert.Equal(t, "P1", src.Projects[0].Code)
	assert.Equal(t, "Acme", src.Projects[0].Client)
	require.NotNil(t, src.Projects[0].Budget)
	assert.Equal(t, "5000", *src.Projects[0].Budget)
	require.NotNil(t, src.Projects[1].RevenueTarget)
	assert.Equal(t, "", *src.Projects[1].RevenueTarget)

	require.Len(t, src.Revenue, 2)
	assert.True(t, decimal.NewFromInt(2500).Equal(src.Revenue[1].Amount))
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), src.Revenue[1].Date)
	assert.Equal(t, 2, src.Revenue[0].Row)

	require.Len(t, src.Expenses, 1)
	require.Len(t, src.Costs, 2)
	assert.True(t, decimal.RequireFromString("300.5").Equal(src.Costs[1].Amount))

	require.Len(t, src.TaxParameters, 2)
	assert.True(t, decimal.RequireFromString("0.0065").Equal(src.TaxParameters[1].Rate))

	// one project, one revenue, one expense and one tax parameter row were skipped
	assert.Len(t, src.Notices, 4)
	for _, n := range src.Notices {
		assert.Equal(t, model.NoticeWarning, n.Level)
	}
}

func TestLoad_OptionalColumnsAbsent(t *testing.T) {
	wb := seedWorkbook(t)
	wb.SetTable("Projetos", model.Table{
		Header: []string{"Código", "Cliente"},
		Rows:   [][]any{{"P1", "Acme"}},
	})

	src, err := Load(context.Background(), wb, DefaultLayout())
	require.NoError(t, err)

	require.Len(t, src.Projects, 1)
	assert.Nil(t, src.Projects[0].Budget)
	assert.Nil(t, src.Projects[0].RevenueTarget)
}

func TestLoad_MissingTab(t *testing.T) {
	wb := NewMemoryWorkbook("empty")

	_, err := Load(context.Background(), wb, DefaultLayout())
	assert.ErrorIs(t, err, common.ErrTableNotFound)
}

func TestMemoryWorkbook_UpdateAndAppend(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook("mem")

	require.NoError(t, wb.AppendRow(ctx, "Tab", []any{"ID", "Amount"}))
	require.NoError(t, wb.AppendRow(ctx, "Tab", []any{"a", 1.0}))
	require.NoError(t, wb.UpdateRow(ctx, "Tab", 2, []any{"a", 2.0}))
	require.NoError(t, wb.UpdateRow(ctx, "Tab", 4, []any{"c", 3.0}))

	table, err := wb.ReadTable(ctx, "Tab")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Amount"}, table.Header)
	assert.Equal(t, [][]any{{"a", 2.0}, nil, {"c", 3.0}}, table.Rows)

	require.NoError(t, wb.FormatTable(ctx, "Tab", 2))
	n, ok := wb.Formatted("Tab")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

package sheets

import (
	"fmt"
	"reflect"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/model"
)

// ProjectColumns names the projects tab and its columns.
type ProjectColumns struct {
	Tab           string `mapstructure:"tab"`
	Code          string `mapstructure:"code"`
	Client        string `mapstructure:"client"`
	RevenueTarget string `mapstructure:"revenue_target"`
	Budget        string `mapstructure:"budget"`
}

// MovementColumns names a dated money tab (revenue or expenses).
type MovementColumns struct {
	Tab     string `mapstructure:"tab"`
	Project string `mapstructure:"project"`
	Amount  string `mapstructure:"amount"`
	Date    string `mapstructure:"date"`
}

// CostColumns names the fixed/variable cost tab.
type CostColumns struct {
	Tab      string `mapstructure:"tab"`
	Category string `mapstructure:"category"`
	Amount   string `mapstructure:"amount"`
}

// TaxParameterColumns names the tax parameter tab.
type TaxParameterColumns struct {
	Tab  string `mapstructure:"tab"`
	Name string `mapstructure:"name"`
	Rate string `mapstructure:"rate"`
}

// Layout describes where the dashboard finds its data in the spreadsheet.
type Layout struct {
	Projects        ProjectColumns        `mapstructure:"projects"`
	Revenue         MovementColumns       `mapstructure:"revenue"`
	Expenses        MovementColumns       `mapstructure:"expenses"`
	Costs           CostColumns           `mapstructure:"costs"`
	TaxParameters   TaxParameterColumns   `mapstructure:"tax_parameters"`
	TaxCalculations model.TaxTableColumns `mapstructure:"tax_calculations"`
}

// DefaultLayout matches the Opyta finance spreadsheet.
func DefaultLayout() Layout {
	return Layout{
		Projects: ProjectColumns{
			Tab:           "Projetos",
			Code:          "Código",
			Client:        "Cliente",
			RevenueTarget: "Meta de Receita",
			Budget:        "Orçamento",
		},
		Revenue: MovementColumns{
			Tab:     "Receitas_Reais",
			Project: "Projeto",
			Amount:  "Valor Recebido",
			Date:    "Data Recebimento",
		},
		Expenses: MovementColumns{
			Tab:     "Despesas_Reais",
			Project: "Projeto",
			Amount:  "Valor Pago",
			Date:    "Data Pagamento",
		},
		Costs: CostColumns{
			Tab:      "Custos_Fixos_Variaveis",
			Category: "Categoria",
			Amount:   "Valor",
		},
		TaxParameters: TaxParameterColumns{
			Tab:  "Parametros_Impostos",
			Name: "Imposto",
			Rate: "Alíquota",
		},
		TaxCalculations: model.TaxTableColumns{
			Tab:           "Calculo_Impostos",
			ID:            "ID",
			Project:       "Projeto",
			RevenueAmount: "Valor da Receita",
			Total:         "Total de Impostos",
		},
	}
}

// Validate reports the first blank tab or column name.
func (l Layout) Validate() error {
	v := reflect.ValueOf(l)
	for i := 0; i < v.NumField(); i++ {
		section := v.Field(i)
		for j := 0; j < section.NumField(); j++ {
			if section.Field(j).String() == "" {
				return fmt.Errorf("%w: layout %s.%s is empty",
					common.ErrInvalidConfig, v.Type().Field(i).Name, section.Type().Field(j).Name)
			}
		}
	}
	return nil
}

package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/calculator"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
	hourLayout     = "15:04"
)

// Analysis row types tell a chart tool how to plot each row.
const (
	rowKPI = "KPI"
	rowBar = "Gráfico de Barras"
	rowPie = "Gráfico de Pizza"
)

// Reader is the part of the store the builder reads.
type Reader interface {
	ListTools(ctx context.Context) ([]*models.Tool, error)
	ListRequesters(ctx context.Context) ([]*models.Requester, error)
	ListMovements(ctx context.Context) ([]*models.Movement, error)
}

// Builder reads a full snapshot from the store and builds a workbook.
type Builder struct {
	store Reader
}

// NewBuilder creates a Builder.
func NewBuilder(store Reader) *Builder {
	return &Builder{store: store}
}

// Build reads every tool, requester and movement. Any read failure aborts
// the build and no workbook is returned.
func (b *Builder) Build(ctx context.Context) (*Workbook, error) {
	tools, err := b.store.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tools: %w", err)
	}
	requesters, err := b.store.ListRequesters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read requesters: %w", err)
	}
	movements, err := b.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read movements: %w", err)
	}

	return Build(tools, requesters, movements), nil
}

// Build assembles the movements sheet, the panel sheet and the analysis sheet.
func Build(tools []*models.Tool, requesters []*models.Requester, movements []*models.Movement) *Workbook {
	return &Workbook{Sheets: []*Sheet{
		movementsSheet(movements),
		panelSheet(tools, requesters),
		analysisSheet(calculator.Aggregate(tools, movements)),
	}}
}

func movementsSheet(movements []*models.Movement) *Sheet {
	s := &Sheet{
		Name:  SheetMovements,
		Title: "Relatório de Retiradas de Ferramentas",
		Headers: []string{
			"Data", "Ferramenta", "Patrimônio", "Solicitante", "Tipo",
			"Data Devolução", "Hora Devolução", "Tem Retorno", "Observações",
		},
	}

	for _, m := range movements {
		var checkedOut, returnDate, returnHour string
		if !m.CheckedOutAt.IsZero() {
			checkedOut = m.CheckedOutAt.Format(dateTimeLayout)
		}
		if !m.ExpectedReturnAt.IsZero() {
			returnDate = m.ExpectedReturnAt.Format(dateLayout)
			if m.SameDayReturn {
				returnHour = m.ExpectedReturnAt.Format(hourLayout)
			}
		}

		s.Rows = append(s.Rows, []any{
			checkedOut,
			m.Tool,
			m.AssetTag,
			m.Requester,
			kindLabel(m.Kind),
			returnDate,
			returnHour,
			yesNo(m.HasExpectedReturn),
			m.Notes,
		})
	}
	return s
}

func panelSheet(tools []*models.Tool, requesters []*models.Requester) *Sheet {
	s := &Sheet{
		Name:    SheetPanel,
		Title:   "Dados Administrativos do Sistema",
		Headers: []string{"Tipo", "Nome", "Patrimônios", "Descrição"},
	}

	for _, t := range tools {
		s.Rows = append(s.Rows, []any{"Ferramenta", t.Name, strings.Join(t.AssetTags, ", "), t.Description})
	}
	for _, r := range requesters {
		s.Rows = append(s.Rows, []any{"Solicitante", r.Name, "", ""})
	}
	return s
}

func analysisSheet(r calculator.Report) *Sheet {
	s := &Sheet{
		Name:    SheetAnalysis,
		Title:   "Análise Gráfica e KPIs",
		Headers: []string{"Tipo", "Categoria", "Valor", "Porcentagem", "Descrição"},
	}
	add := func(kind, category string, value int, pct, desc string) {
		s.Rows = append(s.Rows, []any{kind, category, value, pct, desc})
	}

	add(rowKPI, "Total de Retiradas", r.TotalMovements, "", "Número total de solicitações de retirada")
	add(rowKPI, "Ferramentas no Estoque", r.StockTotal, "", "Total de ferramentas disponíveis")
	add(rowKPI, "Ferramentas em Uso", r.InUse, calculator.Percentage(r.InUse, r.StockTotal), "Ferramentas atualmente emprestadas")
	add(rowKPI, "Ferramentas Quebradas", r.Broken, calculator.Percentage(r.Broken, r.StockTotal), "Ferramentas danificadas")

	for _, c := range r.ByTool {
		add(rowBar, "Retiradas por Ferramenta", c.Count, calculator.Percentage(c.Count, r.TotalMovements), c.Key)
	}
	for _, c := range r.ByRequester {
		add(rowPie, "Retiradas por Solicitante", c.Count, calculator.Percentage(c.Count, r.TotalMovements), c.Key)
	}

	add(rowPie, "Status das Ferramentas", r.Available, calculator.Percentage(r.Available, r.StockTotal), "Disponíveis")
	add(rowPie, "Status das Ferramentas", r.InUse, calculator.Percentage(r.InUse, r.StockTotal), "Em Uso")
	add(rowPie, "Status das Ferramentas", r.Broken, calculator.Percentage(r.Broken, r.StockTotal), "Quebradas")

	for _, m := range r.ByMonth {
		add(rowBar, "Retiradas por Mês", m.Count, "", m.Label())
	}
	return s
}

func kindLabel(k models.MovementKind) string {
	switch k {
	case models.MovementCheckout:
		return "retirada"
	case models.MovementBroken:
		return "quebrada"
	}
	return string(k)
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

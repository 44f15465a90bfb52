package replication

import "github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/models"

const (
	dateLayout = "2006-01-02"
	hourLayout = "15:04"
)

// MovementPayload builds the object the spreadsheet endpoint expects for a
// movement. Absent dates and the return hour outside same-day mode are sent
// as empty strings.
func MovementPayload(m *models.Movement) Payload {
	var checkedOut, expected, hour string
	if !m.CheckedOutAt.IsZero() {
		checkedOut = m.CheckedOutAt.Format(dateLayout)
	}
	if !m.ExpectedReturnAt.IsZero() {
		expected = m.ExpectedReturnAt.Format(dateLayout)
		if m.SameDayReturn {
			hour = m.ExpectedReturnAt.Format(hourLayout)
		}
	}

	hasReturn := "não"
	if m.HasExpectedReturn {
		hasReturn = "sim"
	}

	return Payload{
		"tipo":          "movimentacao",
		"solicitante":   m.Requester,
		"ferramenta":    m.Tool,
		"dataSaida":     checkedOut,
		"dataRetorno":   expected,
		"horaDevolucao": hour,
		"temRetorno":    hasReturn,
		"observacoes":   m.Notes,
	}
}

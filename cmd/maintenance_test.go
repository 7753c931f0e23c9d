package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"case-analysis/models"
)

func TestReadCaseRows(t *testing.T) {
	input := "\ufeff［件名］,［相談概要］,［受付年月日］,［販売購入形態］,備考\n" +
		"解約,概要1,45000,通信販売,x\n" +
		"返品,概要2,2024年4月1日,店舗購入\n" +
		"\"a, b\",概要3, 2024-05-06 ,訪問販売,y\n"

	rows, err := readCaseRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.CaseInput{Name: "解約", Description: "概要1", Date: float64(45000), Type: "通信販売"}, rows[0])
	assert.Equal(t, "2024年4月1日", rows[1].Date)
	assert.Equal(t, "a, b", rows[2].Name)
	assert.Equal(t, "2024-05-06", rows[2].Date)
}

func TestReadCaseRows_PlainHeaders(t *testing.T) {
	rows, err := readCaseRows(strings.NewReader("name,description,date,type\nn,d,2024-01-01,t\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.CaseInput{{Name: "n", Description: "d", Date: "2024-01-01", Type: "t"}}, rows)
}

func TestReadCaseRows_NumericTextOutsideDateColumn(t *testing.T) {
	rows, err := readCaseRows(strings.NewReader("name,description,date,type\n123,d,2024-01-01,t\n"))
	require.NoError(t, err)
	assert.Equal(t, "123", rows[0].Name)
}

func TestReadCaseRows_Empty(t *testing.T) {
	_, err := readCaseRows(strings.NewReader(""))
	assert.Error(t, err)

	rows, err := readCaseRows(strings.NewReader("name,description,date,type\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

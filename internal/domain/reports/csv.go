package reports

import (
	"encoding/csv"
	"io"
)

var csvHeader = []string{"Mes", "Salario Base", "Horas Extra", "Neto"}

func WriteCSV(w io.Writer, rows []MonthlyRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Month,
			row.TotalBaseSalary.StringFixed(2),
			row.TotalOvertime.StringFixed(2),
			row.TotalNet.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

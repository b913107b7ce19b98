package training

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rampex1/FootballMatchPredictor/internal/models"
)

// GenerateConsoleReport formats an evaluation report for terminal output
func GenerateConsoleReport(report models.EvaluationReport) string {
	var builder strings.Builder
	builder.WriteString("Training Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Cutoff Date: %s\n", report.CutoffDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Rolling Window: %d\n", report.Window))
	builder.WriteString(fmt.Sprintf("Train Rows: %d\n", report.TrainRows))
	builder.WriteString(fmt.Sprintf("Test Rows: %d\n", report.TestRows))
	builder.WriteString(fmt.Sprintf("Win Precision: %.2f%%\n", report.Precision*100))
	builder.WriteString(fmt.Sprintf("Accuracy: %.2f%%\n", report.Accuracy*100))
	builder.WriteString(fmt.Sprintf("Predicted Wins: %d (actual wins %d)\n", report.PredictedWins, report.ActualWins))
	if report.AgreementFixtures > 0 {
		builder.WriteString(fmt.Sprintf("Agreement Fixtures: %d\n", report.AgreementFixtures))
		builder.WriteString(fmt.Sprintf("Agreement Precision: %.2f%%\n", report.AgreementPrecision*100))
	}
	builder.WriteString(fmt.Sprintf("Duration: %s\n", report.Duration))
	return builder.String()
}

// GenerateCSVExport exports key evaluation metrics for spreadsheets
func GenerateCSVExport(report models.EvaluationReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("cutoff_date,%s\n", report.CutoffDate.Format("2006-01-02")) +
		fmt.Sprintf("window,%d\n", report.Window) +
		fmt.Sprintf("train_rows,%d\n", report.TrainRows) +
		fmt.Sprintf("test_rows,%d\n", report.TestRows) +
		fmt.Sprintf("precision,%.4f\n", report.Precision) +
		fmt.Sprintf("accuracy,%.4f\n", report.Accuracy) +
		fmt.Sprintf("predicted_wins,%d\n", report.PredictedWins) +
		fmt.Sprintf("actual_wins,%d\n", report.ActualWins) +
		fmt.Sprintf("agreement_fixtures,%d\n", report.AgreementFixtures) +
		fmt.Sprintf("agreement_precision,%.4f\n", report.AgreementPrecision)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}

package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxatlas/internal/output"
)

// TableFormatter formats solver results as console text
type TableFormatter struct{}

// Format renders a single-country solve.
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder
	r := result.Result

	sb.WriteString("GROSS INCOME SOLVER\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Country:             %s\n", r.CountryCode))
	sb.WriteString(fmt.Sprintf("Target:              %s = %s\n", result.Request.Target, tf.formatValue(result.Request.Target, result.Request.Value, r.Currency)))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("REQUIRED GROSS INCOME\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Gross Income:        %s\n", output.FormatMoney(result.Income, r.Currency)))
	sb.WriteString(fmt.Sprintf("Total Tax:           %s\n", output.FormatMoney(r.TotalTax, r.Currency)))
	if r.SocialSecurity.Valid {
		sb.WriteString(fmt.Sprintf("Social Security:     %s\n", output.FormatMoney(r.SocialSecurity.Decimal, r.Currency)))
	}
	sb.WriteString(fmt.Sprintf("Net Income:          %s\n", output.FormatMoney(r.NetIncome, r.Currency)))
	sb.WriteString(fmt.Sprintf("Effective Rate:      %s\n", output.FormatPercentage(r.EffectiveRate)))
	sb.WriteString(fmt.Sprintf("Marginal Rate:       %s\n", output.FormatPercentage(r.MarginalRate)))
	return sb.String()
}

// FormatMulti renders the per-country table of a SolveAcross run.
func (tf *TableFormatter) FormatMulti(result *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("GROSS INCOME NEEDED BY COUNTRY\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Target: %s = %s\n\n", result.Target, tf.formatValue(result.Target, result.Value, result.BaseCurrency)))
	sb.WriteString(fmt.Sprintf("%-4s %-24s %18s %18s %10s\n", "Code", "Country", "Gross (local)", "Gross ("+result.BaseCurrency+")", "Eff. Rate"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, sol := range result.Solutions {
		if sol.Solve == nil {
			sb.WriteString(fmt.Sprintf("%-4s %-24s %s\n", sol.CountryCode, tf.truncate(sol.CountryName, 24), "unreachable"))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-4s %-24s %18s %18s %10s\n",
			sol.CountryCode,
			tf.truncate(sol.CountryName, 24),
			output.FormatMoney(sol.Solve.Income, sol.Currency),
			output.FormatMoney(sol.IncomeInBase, result.BaseCurrency),
			output.FormatPercentage(sol.Solve.Result.EffectiveRate)))
	}

	if result.Cheapest != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Lowest gross income: %s (%s)\n",
			result.Cheapest.CountryName,
			output.FormatMoney(result.Cheapest.IncomeInBase, result.BaseCurrency)))
	}
	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for either result type.
func (jf *JSONFormatter) Format(result any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatValue(t Target, v decimal.Decimal, code string) string {
	if t.IsMoney() {
		return output.FormatMoney(v, code)
	}
	return output.FormatPercentage(v)
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

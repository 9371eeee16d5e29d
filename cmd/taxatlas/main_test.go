package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/taxatlas/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Use != "taxatlas" {
		t.Errorf("Expected root command use to be 'taxatlas', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("Expected root command to have descriptions")
	}

	want := []string{"calculate", "batch", "countries", "compare", "solve", "validate-data", "serve", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q", name)
		}
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "calculate") {
		t.Error("Expected help to list the calculate command")
	}
}

func TestCalculateCommand_Console(t *testing.T) {
	out, err := execute(t, "calculate", "--income", "50000", "--country", "de")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if !strings.Contains(out, "INCOME TAX: Germany (DE)") {
		t.Errorf("Expected report header, got:\n%s", out)
	}
	if !strings.Contains(out, "5,375.44") {
		t.Errorf("Expected total tax 5,375.44, got:\n%s", out)
	}
}

func TestCalculateCommand_JSON(t *testing.T) {
	out, err := execute(t, "calculate", "-i", "50000", "-c", "DE", "-f", "json")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if !strings.Contains(out, `"total_tax": "5375.44"`) {
		t.Errorf("Expected total_tax in JSON, got:\n%s", out)
	}
}

func TestCalculateCommand_UnknownCountry(t *testing.T) {
	out, err := execute(t, "calculate", "--income", "50000", "--country", "ZZ", "--format", "json")
	if err != nil {
		t.Fatalf("Expected soft result without --strict, got %v", err)
	}
	if !strings.Contains(out, string(domain.StatusUnknownCountry)) {
		t.Errorf("Expected unknown_country status, got:\n%s", out)
	}

	_, err = execute(t, "calculate", "--income", "50000", "--country", "ZZ", "--strict")
	if !errors.Is(err, domain.ErrUnknownCountry) {
		t.Errorf("Expected ErrUnknownCountry with --strict, got %v", err)
	}
}

func TestCalculateCommand_InvalidIncome(t *testing.T) {
	_, err := execute(t, "calculate", "--income", "-5", "--country", "DE", "--strict")
	if !errors.Is(err, domain.ErrInvalidIncome) {
		t.Errorf("Expected ErrInvalidIncome, got %v", err)
	}

	_, err = execute(t, "calculate", "--income", "1e1000000", "--country", "DE", "--strict")
	if !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Errorf("Expected ErrAmountOutOfRange, got %v", err)
	}

	out, err := execute(t, "calculate", "--income", "1e1000000", "--country", "DE", "--format", "json")
	if err != nil {
		t.Fatalf("Soft calculate failed: %v", err)
	}
	if !strings.Contains(out, string(domain.StatusInvalidIncome)) {
		t.Errorf("Expected invalid_income status, got:\n%s", out)
	}
}

func TestCalculateCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, "calculate", "--income", "1", "--country", "DE", "--format", "pdf")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Expected unknown format error, got %v", err)
	}
}

func TestCalculateCommand_DisplayCurrency(t *testing.T) {
	out, err := execute(t, "calculate", "-i", "50000", "-c", "DE", "-f", "csv", "--display-currency", "usd")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if !strings.Contains(out, ",USD,") {
		t.Errorf("Expected USD amounts, got:\n%s", out)
	}
}

func TestBatchCommand(t *testing.T) {
	path := writeTemp(t, "requests.yaml", `
requests:
  - {income: 50000, country: DE}
  - {income: 30000, country: EE}
  - {income: 1000, country: ZZ}
`)
	out, err := execute(t, "batch", path, "--format", "csv", "--workers", "2")
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "DE,") || !strings.HasPrefix(lines[3], "ZZ,") {
		t.Errorf("Expected rows in request order, got:\n%s", out)
	}
}

func TestCountriesCommand(t *testing.T) {
	out, err := execute(t, "countries", "--region", "baltic")
	if err != nil {
		t.Fatalf("countries failed: %v", err)
	}
	for _, name := range []string{"Estonia", "Latvia", "Lithuania"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %s in output", name)
		}
	}
	if strings.Contains(out, "Germany") {
		t.Error("Expected region filter to exclude Germany")
	}

	if _, err := execute(t, "countries", "--region", "atlantis"); err == nil {
		t.Error("Expected error for an empty region")
	}
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "--income", "50000", "--base", "DE", "--with", "FR,EE")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(out, "INCOME TAX COMPARISON") {
		t.Errorf("Expected comparison table, got:\n%s", out)
	}
	if !strings.Contains(out, "FR") || !strings.Contains(out, "EE") {
		t.Errorf("Expected both alternatives, got:\n%s", out)
	}

	_, err = execute(t, "compare", "--income", "50000", "--base", "DE", "--with", "QQ")
	if !errors.Is(err, domain.ErrUnknownCountry) {
		t.Errorf("Expected ErrUnknownCountry, got %v", err)
	}
}

func TestCompareCommand_JSON(t *testing.T) {
	out, err := execute(t, "compare", "-i", "50000", "--base", "DE", "--with", "FR", "-f", "json")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if !strings.Contains(out, `"baseCountry": "DE"`) {
		t.Errorf("Expected baseCountry in JSON, got:\n%s", out)
	}
	if !strings.Contains(out, `"generatedAt"`) || !strings.Contains(out, `"countryCount": 2`) {
		t.Errorf("Expected report envelope in JSON, got:\n%s", out)
	}
}

func TestSolveCommand(t *testing.T) {
	out, err := execute(t, "solve", "--country", "EE", "--target", "net", "--value", "0")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !strings.Contains(out, "GROSS INCOME SOLVER") {
		t.Errorf("Expected solver report, got:\n%s", out)
	}

	out, err = execute(t, "solve", "--with", "DE,FR", "--target", "tax", "--value", "10000", "--format", "json")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !strings.Contains(out, `"country_code": "DE"`) || !strings.Contains(out, `"country_code": "FR"`) {
		t.Errorf("Expected both countries, got:\n%s", out)
	}

	if _, err := execute(t, "solve", "--country", "DE", "--target", "gross", "--value", "1"); err == nil {
		t.Error("Expected error for an unknown target")
	}
}

func TestValidateDataCommand(t *testing.T) {
	out, err := execute(t, "validate-data")
	if err != nil {
		t.Fatalf("validate-data failed: %v", err)
	}
	if !strings.Contains(out, "Dataset OK") {
		t.Errorf("Expected success line, got:\n%s", out)
	}

	bad := writeTemp(t, "bad.yaml", `
countries:
  - code: XB
    name: Broken
    currency: EUR
    brackets:
      - {min: 0, max: 100, rate: 0.1}
      - {min: 500, rate: 0.2}
`)
	if _, err := execute(t, "validate-data", bad); err == nil {
		t.Error("Expected a gap between brackets to fail validation")
	}
}

func TestValidateDataCommand_Overrides(t *testing.T) {
	path := writeTemp(t, "overrides.yaml", `
merge_policy: last_write_wins
countries:
  - code: DE
    name: Germany (override)
    currency: EUR
    brackets:
      - {min: 0, rate: 0.25}
`)
	out, err := execute(t, "--overrides", path, "validate-data")
	if err != nil {
		t.Fatalf("validate-data failed: %v", err)
	}
	if !strings.Contains(out, "DE from") {
		t.Errorf("Expected shadowed DE entry, got:\n%s", out)
	}

	out, err = execute(t, "--overrides", path, "calculate", "-i", "1000", "-c", "DE", "-f", "csv")
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if !strings.Contains(out, ",250,") && !strings.Contains(out, ",250.00,") {
		t.Errorf("Expected override to apply, got:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "taxatlas dev") {
		t.Errorf("Unexpected version output: %s", out)
	}
}

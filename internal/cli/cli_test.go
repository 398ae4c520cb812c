package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

// --- looksLikePath ---

func TestLooksLikePath(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"velocity", false},
		{"velocity.yaml", false},
		{"./velocity.yaml", true},
		{"questions/velocity.yaml", true},
		{"/abs/path/velocity.yaml", true},
	}
	for _, c := range cases {
		if got := looksLikePath(c.input); got != c.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- hasYAMLExt ---

func TestHasYAMLExt(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"velocity.yaml", true},
		{"velocity.yml", true},
		{"VELOCITY.YAML", true},
		{"velocity.json", false},
		{"velocity", false},
		{"", false},
	}
	for _, c := range cases {
		if got := hasYAMLExt(c.input); got != c.want {
			t.Errorf("hasYAMLExt(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- fileExists ---

func TestFileExists_True(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exists.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(p) {
		t.Errorf("expected fileExists=true for %s", p)
	}
}

func TestFileExists_False(t *testing.T) {
	tmp := t.TempDir()
	if fileExists(filepath.Join(tmp, "not_there.txt")) {
		t.Error("expected fileExists=false for non-existent file")
	}
}

// --- parseValue ---

func TestParseValue(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"150", 150, false},
		{" -40 ", -40, false},
		{"2.5e3", 2500, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := parseValue(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("parseValue(%q) err=%v, wantErr=%v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Errorf("parseValue(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

// --- printConversion ---

func TestPrintConversion_Pretty(t *testing.T) {
	res := domain.ConversionResult{Value: 150, FromUnit: "cm", ToUnit: "m", Result: 1.5, Via: domain.ViaBase}

	var buf bytes.Buffer
	if err := printConversion(&buf, res, "pretty", -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"150 cm", "1.5", " m", "base"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintConversion_Precision(t *testing.T) {
	res := domain.ConversionResult{Value: 100, FromUnit: "km/h", ToUnit: "m/s", Result: 27.777777777777782}

	var buf bytes.Buffer
	if err := printConversion(&buf, res, "", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "27.78") {
		t.Errorf("expected rounded result, got:\n%s", buf.String())
	}
}

func TestPrintConversion_JSON(t *testing.T) {
	res := domain.ConversionResult{Value: 212, FromUnit: "F", ToUnit: "C", Result: 100, Via: domain.ViaFormula}

	var buf bytes.Buffer
	if err := printConversion(&buf, res, "json", -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got domain.ConversionResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if got != res {
		t.Errorf("expected %+v, got %+v", res, got)
	}
}

func TestPrintConversion_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := printConversion(&buf, domain.ConversionResult{}, "xml", -1)
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected error mentioning format, got %v", err)
	}
}

// --- printRender ---

func sampleGenerated() domain.GeneratedQuestion {
	return domain.GeneratedQuestion{
		ID:         "a1b2",
		QuestionID: "velocity-1",
		Title:      "Average speed",
		Markup:     domain.MarkupText,
		Text:       "A car travels 100 m in 10 s.\nWhat is its speed?",
		Values: []domain.GeneratedValue{
			{Name: "d", Value: 100, Formatted: "100", Unit: "m"},
			{Name: "t", Value: 10, Formatted: "10", Unit: "s"},
		},
		Equations: []domain.RenderedEquation{{ID: "v", Rendered: `v = \frac{100}{10}`}},
		Answers:   []domain.AnswerResult{{Expression: "d / t", Value: 36, Formatted: "36", Unit: "km/h"}},
		References: domain.ReferenceReport{
			Valid: true,
		},
		GeneratedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPrintRender_JSON_ValidOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := printRender(&buf, sampleGenerated(), "20240101T120000Z_velocity-1", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if payload["render_id"] != "20240101T120000Z_velocity-1" {
		t.Errorf("expected render_id, got %v", payload["render_id"])
	}
	if payload["question"] == nil {
		t.Error("expected 'question' key in JSON output")
	}
}

func TestPrintRender_Pretty(t *testing.T) {
	gq := sampleGenerated()
	gq.References = domain.ReferenceReport{Valid: false, Undefined: []string{"speed"}}

	var buf bytes.Buffer
	if err := printRender(&buf, gq, "r-42", "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Average speed (velocity-1)",
		"r-42",
		"d = 100 m",
		"What is its speed?",
		`v = \frac{100}{10}`,
		"d / t =",
		"km/h",
		"{speed}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintRender_AnswerError(t *testing.T) {
	gq := sampleGenerated()
	gq.Answers = []domain.AnswerResult{{Expression: "d / z", Error: `undefined variable "z"`}}

	var buf bytes.Buffer
	printPrettyRender(&buf, gq, "")
	if !strings.Contains(buf.String(), `undefined variable "z"`) {
		t.Errorf("expected answer error in output, got:\n%s", buf.String())
	}
}

func TestPrintRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := printRender(&buf, domain.GeneratedQuestion{}, "", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// --- printPicks ---

func TestPrintPicks_Single(t *testing.T) {
	var buf bytes.Buffer
	err := printPicks(&buf, sampleGenerated(), map[string]string{"answer": "$.answers[0].formatted"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "36" {
		t.Errorf("expected bare value, got %q", buf.String())
	}
}

func TestPrintPicks_Multiple(t *testing.T) {
	var buf bytes.Buffer
	err := printPicks(&buf, sampleGenerated(), map[string]string{
		"d":    "$.values[0].formatted",
		"unit": "$.answers[0].unit",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "d=100") || !strings.Contains(out, "unit=km/h") {
		t.Errorf("expected name=value lines, got:\n%s", out)
	}
}

func TestPrintPicks_Failure(t *testing.T) {
	var buf bytes.Buffer
	err := printPicks(&buf, sampleGenerated(), map[string]string{"missing": "$.nope"})
	if err == nil {
		t.Fatal("expected error for failed pick")
	}
}

// --- validation reports ---

func TestCountInvalid(t *testing.T) {
	reports := []domain.ValidationReport{
		{Issues: []domain.ValidationIssue{}},
		{Issues: []domain.ValidationIssue{{Kind: domain.KindUnitNotFound, Warning: true}}},
		{Issues: []domain.ValidationIssue{{Kind: domain.KindUndefinedVariable}}},
	}
	if n := countInvalid(reports); n != 1 {
		t.Errorf("expected 1, got %d", n)
	}
}

func TestPrintReports_Pretty(t *testing.T) {
	reports := []domain.ValidationReport{
		{QuestionID: "ok", Path: "questions/ok.yaml", Issues: []domain.ValidationIssue{}},
		{QuestionID: "bad", Path: "questions/bad.yaml", Issues: []domain.ValidationIssue{
			{Kind: domain.KindUndefinedVariable, Message: `content references undefined variable "z"`},
			{Kind: domain.KindUnitNotFound, Message: `unit "kg" is not in the catalog`, Warning: true},
		}},
	}

	var buf bytes.Buffer
	if err := printReports(&buf, reports, "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"OK", "INVALID", "questions/bad.yaml", `undefined variable "z"`, "unit_not_found"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestPrintReports_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := printReports(&buf, nil, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "no questions") {
		t.Errorf("expected empty notice, got %q", buf.String())
	}
}

// --- newEngine ---

func TestNewEngine_MarkupAndSeed(t *testing.T) {
	cfg := domain.DefaultConfig()

	e, err := newEngine(cfg, renderFlags{markup: "text"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Markup().Name != domain.MarkupText {
		t.Errorf("expected text markup, got %q", e.Markup().Name)
	}

	if _, err := newEngine(cfg, renderFlags{markup: "latex"}, false); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config for unknown markup, got %v", err)
	}

	vars := []domain.Variable{{Name: "x", Min: 0, Max: 1000}}
	a, _ := newEngine(cfg, renderFlags{seed: 7}, true)
	b, _ := newEngine(cfg, renderFlags{seed: 7}, true)
	if *a.GenerateValues(vars)[0].CurrentValue != *b.GenerateValues(vars)[0].CurrentValue {
		t.Error("expected equal seeds to draw equal values")
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"init", "convert", "units", "questions", "render", "validate", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
}

func TestRenderCmd_Flags(t *testing.T) {
	cmd := renderCmd(&rootFlags{})
	for _, flag := range []string{"seed", "markup", "no-save", "format", "pick"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on render command", flag)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, flag := range []string{"debug", "workspace"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent --%s flag", flag)
		}
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

// --- end to end over an initialized workspace ---

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func initWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if out, err := runCLI(t, "init", root); err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}
	return root
}

func TestCLI_Convert(t *testing.T) {
	root := initWorkspace(t)

	out, err := runCLI(t, "convert", "150", "cm", "m", "-w", root, "--format", "json")
	if err != nil {
		t.Fatalf("convert failed: %v\n%s", err, out)
	}
	var res domain.ConversionResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if res.Result != 1.5 {
		t.Errorf("expected 1.5, got %v", res.Result)
	}

	out, err = runCLI(t, "convert", "212", "F", "C", "-w", root, "--format", "json")
	if err != nil {
		t.Fatalf("convert failed: %v\n%s", err, out)
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if res.Via != domain.ViaFormula || res.Result < 99.999 || res.Result > 100.001 {
		t.Errorf("expected 100 via formula, got %+v", res)
	}
}

func TestCLI_Convert_NoPath(t *testing.T) {
	root := initWorkspace(t)

	_, err := runCLI(t, "convert", "1", "s", "m", "-w", root)
	if !domain.IsKind(err, domain.KindDifferentCategories) {
		t.Fatalf("expected different categories error, got %v", err)
	}
	if msg := domain.UserMessage(err); strings.Contains(msg, "convert.") {
		t.Errorf("expected a user message without op prefix, got %q", msg)
	}
}

func TestCLI_RenderAndValidate(t *testing.T) {
	root := initWorkspace(t)

	out, err := runCLI(t, "render", "velocity", "-w", root, "--seed", "42", "--markup", "text", "--format", "json")
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, out)
	}

	var payload struct {
		RenderID string                   `json:"render_id"`
		Question domain.GeneratedQuestion `json:"question"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if payload.RenderID == "" {
		t.Error("expected the render to be saved")
	}
	if !fileExists(filepath.Join(root, "renders", payload.RenderID+".json")) {
		t.Errorf("expected artifact for %q under renders/", payload.RenderID)
	}

	gq := payload.Question
	if gq.Markup != domain.MarkupText || len(gq.Values) != 2 {
		t.Fatalf("unexpected generated question %+v", gq)
	}
	if len(gq.Answers) != 1 || gq.Answers[0].Error != "" || gq.Answers[0].Unit != "km/h" {
		t.Fatalf("expected converted answer, got %+v", gq.Answers)
	}
	if strings.Contains(gq.Text, "{d}") || strings.Contains(gq.Text, "[equation:v]") {
		t.Errorf("expected placeholders substituted, got %q", gq.Text)
	}

	again, err := runCLI(t, "render", "velocity-1", "-w", root, "--seed", "42", "--no-save", "--pick", "$.values[0].formatted")
	if err != nil {
		t.Fatalf("render --pick failed: %v\n%s", err, again)
	}
	if strings.TrimSpace(again) != gq.Values[0].Formatted {
		t.Errorf("expected same seed to draw %q, got %q", gq.Values[0].Formatted, again)
	}

	out, err = runCLI(t, "validate", "-w", root)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "velocity-1") {
		t.Errorf("expected question in report, got:\n%s", out)
	}
}

func TestCLI_ValidateInvalidQuestion(t *testing.T) {
	root := initWorkspace(t)
	bad := "id: bad\ncontent: \"{missing} [equation:nope]\"\nvariables:\n  - {name: x, min: 0, max: 1}\n"
	if err := os.WriteFile(filepath.Join(root, "questions", "bad.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "validate", "bad", "-w", root)
	if err == nil {
		t.Fatalf("expected validation failure, got:\n%s", out)
	}
	if !strings.Contains(out, "INVALID") {
		t.Errorf("expected INVALID status, got:\n%s", out)
	}
}

func TestCLI_Lists(t *testing.T) {
	root := initWorkspace(t)

	out, err := runCLI(t, "units", "list", "-w", root)
	if err != nil {
		t.Fatalf("units list failed: %v\n%s", err, out)
	}
	for _, want := range []string{"SI basics", "Length", "kilometre", "F -> C"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in units list, got:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "questions", "list", "-w", root)
	if err != nil {
		t.Fatalf("questions list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "velocity-1") {
		t.Errorf("expected velocity-1 in questions list, got:\n%s", out)
	}
}

func TestCLI_WorkspaceMissing(t *testing.T) {
	_, err := runCLI(t, "convert", "1", "m", "cm", "-w", t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found for missing edugestor.yaml, got %v", err)
	}
}

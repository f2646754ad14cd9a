package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/mcp-probe/internal/common"
	"github.com/bobmcallan/mcp-probe/internal/dispatch"
	"github.com/bobmcallan/mcp-probe/internal/tools"
)

// --- Helpers ---

// testCaller builds a full in-process server over a temp root seeded
// with a README so the read_file execution check has a target.
func testCaller(t *testing.T) Caller {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("# probe"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	registry := tools.NewRegistry()
	for _, b := range tools.NewToolset(root).Builtins() {
		if err := registry.Register(b.Descriptor, b.Handler); err != nil {
			t.Fatalf("Register %s failed: %v", b.Descriptor.Name, err)
		}
	}
	return dispatch.New(registry, "mcp-probe", "test", common.NewSilentLogger())
}

func echoDescriptor() tools.Descriptor {
	return tools.Descriptor{
		Name:        "echo",
		Description: "Echo back the input message",
		Params: []tools.Param{
			{Name: "message", Type: "string", Description: "Message to echo back", Required: true},
		},
	}
}

// --- Level tests ---

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"basic":    LevelBasic,
		"standard": LevelStandard,
		"strict":   LevelStrict,
		"bogus":    LevelStandard,
		"":         LevelStandard,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestChecksPerLevel(t *testing.T) {
	caller := testCaller(t)

	counts := map[Level]int{
		LevelBasic:    2,
		LevelStandard: 5,
		LevelStrict:   7,
	}
	for level, want := range counts {
		v := NewValidator(caller, level)
		result := v.ValidateTool(t.Context(), echoDescriptor())
		if len(result.Checks) != want {
			t.Errorf("level %s: expected %d checks, got %d", level, want, len(result.Checks))
		}
	}
}

// --- Validator tests ---

func TestValidateEchoPasses(t *testing.T) {
	v := NewValidator(testCaller(t), LevelStandard)

	result := v.ValidateTool(t.Context(), echoDescriptor())
	if !result.Passed {
		t.Fatalf("echo validation failed: %+v", result.Checks)
	}
	if result.ComplianceScore <= 0 {
		t.Errorf("expected positive compliance score, got %.1f", result.ComplianceScore)
	}
	if result.ToolName != "echo" {
		t.Errorf("expected tool name echo, got %s", result.ToolName)
	}
}

func TestValidateAllBuiltinsPass(t *testing.T) {
	caller := testCaller(t)
	v := NewValidator(caller, LevelStandard)

	for _, b := range tools.NewToolset("").Builtins() {
		result := v.ValidateTool(t.Context(), b.Descriptor)
		if !result.Passed {
			for _, c := range result.Checks {
				if !c.Passed {
					t.Logf("%s/%s: %s", b.Descriptor.Name, c.Name, c.Message)
				}
			}
			t.Errorf("builtin %s failed validation", b.Descriptor.Name)
		}
	}
}

func TestCriticalSchemaFailureStopsChecks(t *testing.T) {
	v := NewValidator(testCaller(t), LevelStandard)

	bad := tools.Descriptor{Name: "bad name!", Description: "A tool with an invalid name"}
	result := v.ValidateTool(t.Context(), bad)
	if result.Passed {
		t.Fatal("expected invalid name to fail validation")
	}
	if len(result.Checks) != 1 {
		t.Errorf("expected validation to stop after the critical check, got %d checks", len(result.Checks))
	}
	if result.Checks[0].Severity != SeverityCritical {
		t.Errorf("expected critical severity, got %s", result.Checks[0].Severity)
	}
}

func TestSchemaRejectsUnknownParamType(t *testing.T) {
	v := NewValidator(testCaller(t), LevelBasic)

	desc := tools.Descriptor{
		Name:        "odd",
		Description: "A tool with a strange parameter",
		Params:      []tools.Param{{Name: "blob", Type: "binary", Description: "Raw bytes"}},
	}
	result := v.checkSchema(t.Context(), desc)
	if result.Passed {
		t.Error("expected unrecognized param type to fail schema validation")
	}
}

func TestProtocolComplianceWarnsOnShortDescription(t *testing.T) {
	v := NewValidator(testCaller(t), LevelStandard)

	desc := tools.Descriptor{Name: "t", Description: "short"}
	result := v.checkProtocolCompliance(t.Context(), desc)
	if result.Passed {
		t.Error("expected short description to be flagged")
	}
	if result.Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %s", result.Severity)
	}
}

func TestErrorHandlingCheck(t *testing.T) {
	v := NewValidator(testCaller(t), LevelStandard)

	result := v.checkErrorHandling(t.Context(), echoDescriptor())
	if !result.Passed {
		t.Errorf("echo returns structured errors for bad input, check should pass: %s", result.Message)
	}
}

func TestSecurityCheckFlagsDangerousDescription(t *testing.T) {
	v := NewValidator(testCaller(t), LevelStrict)

	desc := tools.Descriptor{
		Name:        "wipe",
		Description: "Delete all files and remove the system configuration",
	}
	result := v.checkSecurity(t.Context(), desc)
	if result.Passed {
		t.Error("expected dangerous vocabulary to be flagged")
	}
	if result.Severity != SeverityWarning {
		t.Errorf("expected warning severity, got %s", result.Severity)
	}
}

// --- Discovery tests ---

func TestDiscover(t *testing.T) {
	d := NewDiscovery(testCaller(t))

	descriptors, err := d.Discover(t.Context(), false)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(descriptors) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(descriptors))
	}

	info := d.CacheInfo()
	if info.CachedTools != 3 {
		t.Errorf("expected 3 cached tools, got %d", info.CachedTools)
	}
	if info.CachedAt.IsZero() {
		t.Error("expected cache timestamp to be set")
	}
}

func TestToolDetails(t *testing.T) {
	d := NewDiscovery(testCaller(t))

	desc, found, err := d.ToolDetails(t.Context(), "echo")
	if err != nil {
		t.Fatalf("ToolDetails failed: %v", err)
	}
	if !found {
		t.Fatal("expected echo to be found")
	}
	if desc.Name != "echo" {
		t.Errorf("expected echo, got %s", desc.Name)
	}

	_, found, err = d.ToolDetails(t.Context(), "missing")
	if err != nil {
		t.Fatalf("ToolDetails failed: %v", err)
	}
	if found {
		t.Error("expected missing tool not to be found")
	}
}

func TestCategorize(t *testing.T) {
	d := NewDiscovery(testCaller(t))

	categories, err := d.Categorize(t.Context())
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	fileOps := categories[CategoryFileOperations]
	names := map[string]bool{}
	for _, desc := range fileOps {
		names[desc.Name] = true
	}
	if !names["read_file"] || !names["list_files"] {
		t.Errorf("expected read_file and list_files under file_operations, got %v", names)
	}
	// Echo's description mentions "message", which the communication
	// keyword group matches before utility.
	comm := categories[CategoryCommunication]
	if len(comm) != 1 || comm[0].Name != "echo" {
		t.Errorf("expected echo under communication, got %v", comm)
	}
}

func TestCategorizeKeywordPrecedence(t *testing.T) {
	d := NewDiscovery(testCaller(t))

	categories, err := d.Categorize(t.Context())
	if err != nil {
		t.Fatalf("Categorize failed: %v", err)
	}

	// First matching keyword group wins; a tool lands in exactly one
	// category and none are double counted.
	total := 0
	for _, descs := range categories {
		total += len(descs)
	}
	if total != 3 {
		t.Errorf("expected 3 categorized tools, got %d", total)
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	d := NewDiscovery(testCaller(t))

	analysis, err := d.AnalyzeComplexity(t.Context())
	if err != nil {
		t.Fatalf("AnalyzeComplexity failed: %v", err)
	}

	echo, ok := analysis["echo"]
	if !ok {
		t.Fatal("expected complexity entry for echo")
	}
	if echo.ParamCount != 1 || echo.RequiredParams != 1 {
		t.Errorf("echo: expected 1 param, 1 required; got %d/%d", echo.ParamCount, echo.RequiredParams)
	}
	if echo.Level != "simple" {
		t.Errorf("echo: expected simple, got %s", echo.Level)
	}
}

func TestSummarize(t *testing.T) {
	d := NewDiscovery(testCaller(t))

	summary, err := d.Summarize(t.Context())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.TotalTools != 3 {
		t.Errorf("expected 3 tools, got %d", summary.TotalTools)
	}
	for name, info := range summary.Tools {
		if !info.ValidationReady {
			t.Errorf("tool %s should be validation ready", name)
		}
	}
}

// --- Runner tests ---

func TestRunFull(t *testing.T) {
	r := NewRunner(testCaller(t), LevelStandard, common.NewSilentLogger())

	suite, err := r.RunFull(t.Context(), nil)
	if err != nil {
		t.Fatalf("RunFull failed: %v", err)
	}
	if suite.TotalTools != 3 {
		t.Fatalf("expected 3 tools, got %d", suite.TotalTools)
	}
	if suite.FailedTools != 0 {
		t.Errorf("expected all builtins to pass, %d failed", suite.FailedTools)
	}
	if suite.OverallComplianceScore <= 0 {
		t.Errorf("expected positive overall score, got %.1f", suite.OverallComplianceScore)
	}
}

func TestRunFullFilter(t *testing.T) {
	r := NewRunner(testCaller(t), LevelBasic, common.NewSilentLogger())

	suite, err := r.RunFull(t.Context(), []string{"echo"})
	if err != nil {
		t.Fatalf("RunFull failed: %v", err)
	}
	if suite.TotalTools != 1 {
		t.Fatalf("expected 1 tool, got %d", suite.TotalTools)
	}
	if suite.ToolResults[0].ToolName != "echo" {
		t.Errorf("expected echo, got %s", suite.ToolResults[0].ToolName)
	}
}

func TestRunTool(t *testing.T) {
	r := NewRunner(testCaller(t), LevelStandard, common.NewSilentLogger())

	result, err := r.RunTool(t.Context(), "echo")
	if err != nil {
		t.Fatalf("RunTool failed: %v", err)
	}
	if !result.Passed {
		t.Errorf("expected echo to pass: %+v", result.Checks)
	}

	if _, err := r.RunTool(t.Context(), "missing"); err == nil {
		t.Error("expected unknown tool to fail")
	}
}

func TestBenchmark(t *testing.T) {
	r := NewRunner(testCaller(t), LevelBasic, common.NewSilentLogger())

	stats, err := r.Benchmark(t.Context(), 2)
	if err != nil {
		t.Fatalf("Benchmark failed: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected stats for 3 tools, got %d", len(stats))
	}
	for name, s := range stats {
		if s.Iterations != 2 {
			t.Errorf("%s: expected 2 iterations, got %d", name, s.Iterations)
		}
		if s.SuccessRate != 100 {
			t.Errorf("%s: expected 100%% success, got %.1f", name, s.SuccessRate)
		}
		if s.MinDuration > s.MaxDuration {
			t.Errorf("%s: min %s exceeds max %s", name, s.MinDuration, s.MaxDuration)
		}
	}
}

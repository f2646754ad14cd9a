package validation

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reporter writes validation suite results in one or more formats.
type Reporter struct {
	OutputDir string
	Console   io.Writer
}

// NewReporter creates a reporter writing files under outputDir and
// console output to stdout.
func NewReporter(outputDir string) *Reporter {
	return &Reporter{OutputDir: outputDir, Console: os.Stdout}
}

// Generate produces reports in the requested formats ("console",
// "json", "markdown", "html") and returns the paths of written files
// keyed by format.
func (r *Reporter) Generate(suite SuiteResult, formats []string) (map[string]string, error) {
	if len(formats) == 0 {
		formats = []string{"console", "json"}
	}

	timestamp := time.Now().Format("20060102_150405")
	files := map[string]string{}

	for _, format := range formats {
		switch format {
		case "console":
			r.writeConsole(suite)
		case "json":
			path, err := r.writeJSON(suite, timestamp)
			if err != nil {
				return files, err
			}
			files["json"] = path
		case "markdown":
			path, err := r.writeMarkdown(suite, timestamp)
			if err != nil {
				return files, err
			}
			files["markdown"] = path
		case "html":
			path, err := r.writeHTML(suite, timestamp)
			if err != nil {
				return files, err
			}
			files["html"] = path
		default:
			return files, fmt.Errorf("unknown report format: %s", format)
		}
	}
	return files, nil
}

func (r *Reporter) writeConsole(suite SuiteResult) {
	w := r.Console
	if w == nil {
		w = os.Stdout
	}

	line := strings.Repeat("=", 60)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "MCP VALIDATION SUITE REPORT")
	fmt.Fprintln(w, line)

	successRate := 0.0
	if suite.TotalTools > 0 {
		successRate = float64(suite.PassedTools) / float64(suite.TotalTools) * 100
	}

	fmt.Fprintln(w, "\nSUMMARY")
	fmt.Fprintf(w, "   Total Tools: %d\n", suite.TotalTools)
	fmt.Fprintf(w, "   Passed: %d\n", suite.PassedTools)
	fmt.Fprintf(w, "   Failed: %d\n", suite.FailedTools)
	fmt.Fprintf(w, "   Success Rate: %.1f%%\n", successRate)
	fmt.Fprintf(w, "   Overall Compliance Score: %.1f%%\n", suite.OverallComplianceScore)
	fmt.Fprintf(w, "   Execution Time: %s\n", suite.Duration.Round(time.Millisecond))

	fmt.Fprintln(w, "\nTOOL RESULTS")
	for _, tr := range suite.ToolResults {
		status := "PASS"
		if !tr.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "   [%s] %-20s Score: %5.1f%%  Time: %s\n",
			status, tr.ToolName, tr.ComplianceScore, tr.Duration.Round(time.Millisecond))
	}

	for _, tr := range suite.ToolResults {
		if tr.Passed {
			continue
		}
		fmt.Fprintf(w, "\nFAILED: %s\n", tr.ToolName)
		for _, c := range tr.Checks {
			if !c.Passed {
				fmt.Fprintf(w, "   - %s: %s\n", c.Name, c.Message)
			}
		}
	}

	fmt.Fprintln(w, "\n"+line)
}

// jsonReport is the serialized report envelope.
type jsonReport struct {
	Metadata struct {
		ReportID    string    `json:"report_id"`
		GeneratedAt time.Time `json:"generated_at"`
		Version     string    `json:"report_version"`
	} `json:"metadata"`
	Summary struct {
		TotalTools             int     `json:"total_tools"`
		PassedTools            int     `json:"passed_tools"`
		FailedTools            int     `json:"failed_tools"`
		SuccessRate            float64 `json:"success_rate"`
		OverallComplianceScore float64 `json:"overall_compliance_score"`
		DurationMS             int64   `json:"duration_ms"`
	} `json:"summary"`
	Tools []ToolResult `json:"tools"`
}

func (r *Reporter) writeJSON(suite SuiteResult, timestamp string) (string, error) {
	var report jsonReport
	report.Metadata.ReportID = uuid.NewString()
	report.Metadata.GeneratedAt = time.Now()
	report.Metadata.Version = "1.0"
	report.Summary.TotalTools = suite.TotalTools
	report.Summary.PassedTools = suite.PassedTools
	report.Summary.FailedTools = suite.FailedTools
	if suite.TotalTools > 0 {
		report.Summary.SuccessRate = float64(suite.PassedTools) / float64(suite.TotalTools) * 100
	}
	report.Summary.OverallComplianceScore = suite.OverallComplianceScore
	report.Summary.DurationMS = suite.Duration.Milliseconds()
	report.Tools = suite.ToolResults

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return r.writeFile("validation_report_"+timestamp+".json", data)
}

func (r *Reporter) writeMarkdown(suite SuiteResult, timestamp string) (string, error) {
	var b strings.Builder

	successRate := 0.0
	if suite.TotalTools > 0 {
		successRate = float64(suite.PassedTools) / float64(suite.TotalTools) * 100
	}

	fmt.Fprintf(&b, "# MCP Validation Suite Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Report ID:** %s\n\n", timestamp)
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&b, "| Total Tools | %d |\n", suite.TotalTools)
	fmt.Fprintf(&b, "| Passed | %d |\n", suite.PassedTools)
	fmt.Fprintf(&b, "| Failed | %d |\n", suite.FailedTools)
	fmt.Fprintf(&b, "| Success Rate | %.1f%% |\n", successRate)
	fmt.Fprintf(&b, "| Overall Compliance Score | %.1f%% |\n", suite.OverallComplianceScore)
	fmt.Fprintf(&b, "| Execution Time | %s |\n\n", suite.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "## Tool Results\n\n")

	for _, tr := range suite.ToolResults {
		status := "PASSED"
		if !tr.Passed {
			status = "FAILED"
		}
		fmt.Fprintf(&b, "### %s %s\n\n", status, tr.ToolName)
		fmt.Fprintf(&b, "**Compliance Score:** %.1f%%  \n", tr.ComplianceScore)
		fmt.Fprintf(&b, "**Execution Time:** %s\n\n", tr.Duration.Round(time.Millisecond))
		fmt.Fprintf(&b, "#### Test Results\n\n")
		for _, c := range tr.Checks {
			marker := "PASS"
			if !c.Passed {
				marker = "FAIL"
				if c.Severity == SeverityWarning {
					marker = "WARN"
				}
			}
			fmt.Fprintf(&b, "- %s **%s**: %s\n", marker, c.Name, c.Message)
		}
		fmt.Fprintf(&b, "\n")
	}

	return r.writeFile("validation_report_"+timestamp+".md", []byte(b.String()))
}

var htmlReportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>MCP Validation Report - {{.Timestamp}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.metric { display: inline-block; margin-right: 30px; }
.metric b { font-size: 1.5em; }
.tool { border: 1px solid #ddd; border-radius: 6px; margin-bottom: 16px; padding: 12px; }
.pass { color: #28a745; }
.fail { color: #dc3545; }
.warn { color: #b8860b; }
.check { margin: 4px 0; padding-left: 12px; border-left: 3px solid #ddd; }
</style>
</head>
<body>
<h1>MCP Validation Suite Report</h1>
<p>Generated on {{.Generated}}</p>
<div>
  <span class="metric"><b>{{.Suite.TotalTools}}</b> tools</span>
  <span class="metric pass"><b>{{.Suite.PassedTools}}</b> passed</span>
  <span class="metric fail"><b>{{.Suite.FailedTools}}</b> failed</span>
  <span class="metric"><b>{{printf "%.1f" .Suite.OverallComplianceScore}}%</b> compliance</span>
</div>
{{range .Suite.ToolResults}}
<div class="tool">
  <h2 class="{{if .Passed}}pass{{else}}fail{{end}}">{{.ToolName}} - {{printf "%.1f" .ComplianceScore}}%</h2>
  {{range .Checks}}
  <div class="check {{if .Passed}}pass{{else if eq (printf "%s" .Severity) "warning"}}warn{{else}}fail{{end}}">
    <b>{{.Name}}</b>: {{.Message}}
  </div>
  {{end}}
</div>
{{end}}
</body>
</html>
`))

func (r *Reporter) writeHTML(suite SuiteResult, timestamp string) (string, error) {
	var b strings.Builder
	err := htmlReportTemplate.Execute(&b, struct {
		Timestamp string
		Generated string
		Suite     SuiteResult
	}{
		Timestamp: timestamp,
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Suite:     suite,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return r.writeFile("validation_report_"+timestamp+".html", []byte(b.String()))
}

func (r *Reporter) writeFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", r.OutputDir, err)
	}
	path := filepath.Join(r.OutputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}

// SummaryStats derives aggregate statistics from a suite result.
type SummaryStats struct {
	TotalChecks       int              `json:"total_checks"`
	PassedChecks      int              `json:"passed_checks"`
	FailedChecks      int              `json:"failed_checks"`
	CheckSuccessRate  float64          `json:"check_success_rate"`
	AvgToolDuration   time.Duration    `json:"avg_tool_duration"`
	MinToolDuration   time.Duration    `json:"min_tool_duration"`
	MaxToolDuration   time.Duration    `json:"max_tool_duration"`
	SeverityBreakdown map[Severity]int `json:"severity_breakdown"`
	// ComplianceDistribution buckets tool scores: excellent (>=90),
	// good (>=70), fair (>=50), poor (<50).
	ComplianceDistribution map[string]int `json:"compliance_distribution"`
}

// Stats computes summary statistics for a suite result.
func Stats(suite SuiteResult) SummaryStats {
	stats := SummaryStats{
		SeverityBreakdown:      map[Severity]int{},
		ComplianceDistribution: map[string]int{},
	}
	if len(suite.ToolResults) == 0 {
		return stats
	}

	var total time.Duration
	for _, tr := range suite.ToolResults {
		total += tr.Duration
		switch {
		case tr.ComplianceScore >= 90:
			stats.ComplianceDistribution["excellent"]++
		case tr.ComplianceScore >= 70:
			stats.ComplianceDistribution["good"]++
		case tr.ComplianceScore >= 50:
			stats.ComplianceDistribution["fair"]++
		default:
			stats.ComplianceDistribution["poor"]++
		}
		if stats.MinToolDuration == 0 || tr.Duration < stats.MinToolDuration {
			stats.MinToolDuration = tr.Duration
		}
		if tr.Duration > stats.MaxToolDuration {
			stats.MaxToolDuration = tr.Duration
		}
		for _, c := range tr.Checks {
			stats.TotalChecks++
			if c.Passed {
				stats.PassedChecks++
			} else {
				stats.FailedChecks++
			}
			stats.SeverityBreakdown[c.Severity]++
		}
	}

	stats.AvgToolDuration = total / time.Duration(len(suite.ToolResults))
	if stats.TotalChecks > 0 {
		stats.CheckSuccessRate = float64(stats.PassedChecks) / float64(stats.TotalChecks) * 100
	}
	return stats
}
